package sections_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Kyz7/landing/internal/sections"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	t.Run("Success - typed sections by key and by type field", func(t *testing.T) {
		doc, err := sections.Decode([]byte(`{
			"sectionOrder": ["header", "hero", "slider_1", "textBlock_2", "footer"],
			"header": {"slogan": "We Plan, You Pack", "phone": "+91 98"},
			"hero": {"title": "Kashmir"},
			"slider_1": {"type": "slider", "autoplay": true, "autoplayInterval": 3000, "items": [{"image": "a.jpg"}]},
			"textBlock_2": {"type": "textBlock", "title": "Visa", "content": "Not needed"},
			"footer": {"links": ["ABOUT US"]}
		}`))
		assert.NoError(t, err)

		assert.Equal(t, []string{"header", "hero", "slider_1", "textBlock_2", "footer"}, doc.Order)
		assert.Equal(t, sections.Header{Slogan: "We Plan, You Pack", Phone: "+91 98"}, doc.Sections["header"])
		assert.Equal(t, "Kashmir", doc.Sections["hero"].(sections.Hero).Title)

		slider := doc.Sections["slider_1"].(sections.Slider)
		assert.True(t, slider.Autoplay)
		assert.Equal(t, 3000, slider.AutoplayInterval)
		assert.Equal(t, "a.jpg", slider.Items[0].Image)

		assert.Equal(t, sections.KindTextBlock, doc.Sections["textBlock_2"].Kind())
		assert.Equal(t, []string{"ABOUT US"}, doc.Sections["footer"].(sections.Footer).Links)
	})

	t.Run("Success - wrong types fall back to zero values", func(t *testing.T) {
		doc, err := sections.Decode([]byte(`{
			"sectionOrder": "header,hero",
			"header": "broken",
			"hero": {"title": 42, "subtitle": ["x"]},
			"packages": {"title": "Deals", "items": [{"price": 7999, "discount": 25, "inclusions": "Breakfast\nDinner\n\nTransfers"}, null]},
			"slider_9": {"type": "slider", "autoplay": "yes", "autoplayInterval": 500}
		}`))
		assert.NoError(t, err)

		assert.Nil(t, doc.Order)
		assert.Equal(t, sections.Header{}, doc.Sections["header"])
		assert.Equal(t, sections.Hero{Title: "42"}, doc.Sections["hero"])

		pkgs := doc.Sections["packages"].(sections.Packages)
		assert.Len(t, pkgs.Items, 2)
		assert.Equal(t, "7999", pkgs.Items[0].Price)
		assert.Equal(t, "25", pkgs.Items[0].Discount)
		assert.Equal(t, []string{"Breakfast", "Dinner", "Transfers"}, pkgs.Items[0].Inclusions)
		assert.Equal(t, []string{}, pkgs.Items[1].Inclusions)

		slider := doc.Sections["slider_9"].(sections.Slider)
		assert.True(t, slider.Autoplay)
		assert.Equal(t, sections.MinAutoplayInterval, slider.AutoplayInterval)
	})

	t.Run("Success - unknown payloads are preserved", func(t *testing.T) {
		input := `{"sectionOrder":["header","gallery_1"],"gallery_1":{"type":"gallery","images":["a","b"]},"note":"hello"}`
		doc, err := sections.Decode([]byte(input))
		assert.NoError(t, err)
		assert.Equal(t, sections.KindUnknown, doc.Sections["gallery_1"].Kind())

		out, err := json.Marshal(doc)
		assert.NoError(t, err)
		assert.JSONEq(t, input, string(out))
	})

	t.Run("Success - empty input", func(t *testing.T) {
		for _, in := range []string{"", "null", "  "} {
			doc, err := sections.Decode([]byte(in))
			assert.NoError(t, err)
			assert.Nil(t, doc.Order)
			assert.Empty(t, doc.Sections)
		}
	})

	t.Run("Error - not a JSON object", func(t *testing.T) {
		_, err := sections.Decode([]byte(`[1,2]`))
		assert.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	t.Run("Success - sectionOrder first and lists never null", func(t *testing.T) {
		doc := sections.SectionMap{
			Order: []string{"header", "packages", "footer"},
			Sections: map[string]sections.Section{
				"footer":   sections.Footer{},
				"packages": sections.Packages{Title: "Deals", Items: []sections.Package{{Title: "Goa"}}},
				"header":   sections.Header{},
				"zeta":     sections.TextBlock{Title: "Orphan"},
			},
		}

		out := string(sections.Encode(doc))
		assert.True(t, strings.HasPrefix(out, `{"sectionOrder":["header","packages","footer"]`))
		assert.Contains(t, out, `"inclusions":[]`)
		assert.Contains(t, out, `"links":[]`)
		assert.Contains(t, out, `"type":"textBlock"`)
		assert.NotContains(t, out, "null")
		assert.Less(t, strings.Index(out, `"footer"`+":"), strings.Index(out, `"zeta"`))
	})

	t.Run("Success - absent order is omitted", func(t *testing.T) {
		doc := sections.SectionMap{Sections: map[string]sections.Section{"hero": sections.Hero{Title: "x"}}}
		out := string(sections.Encode(doc))
		assert.NotContains(t, out, "sectionOrder")
	})

	t.Run("Success - decode of encode is stable", func(t *testing.T) {
		doc, err := sections.Preset(sections.PresetTravelPackage)
		assert.NoError(t, err)

		again, err := sections.Decode(sections.Encode(doc))
		assert.NoError(t, err)
		assert.Equal(t, doc, again)
	})
}
