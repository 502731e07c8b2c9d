package sections

import (
	"bytes"
	"encoding/json"
	"sort"
)

// DecodeSection builds a typed section from a loosely shaped payload. Fixed
// keys are matched by name; any other key is matched by its "type" field.
// Wrongly typed fields decode to zero values.
func DecodeSection(key string, raw interface{}) Section {
	if IsFixedKey(key) {
		return decodeFixed(Kind(key), asMap(raw))
	}

	content, ok := raw.(map[string]interface{})
	if !ok {
		return Unknown{Value: raw}
	}

	switch Kind(getString(content, "type")) {
	case KindSlider:
		slider := Slider{
			Type:             string(KindSlider),
			Title:            getString(content, "title"),
			Autoplay:         parseBool(content["autoplay"], false),
			AutoplayInterval: NormalizeInterval(parseInt(content["autoplayInterval"], DefaultAutoplayInterval)),
			Items:            []Slide{},
		}
		for _, item := range getItems(content, "items") {
			slider.Items = append(slider.Items, decodeSlide(item))
		}
		return slider
	case KindTextBlock:
		return TextBlock{
			Type:    string(KindTextBlock),
			Title:   getString(content, "title"),
			Content: getString(content, "content"),
		}
	default:
		return Unknown{Value: content}
	}
}

func decodeFixed(kind Kind, content map[string]interface{}) Section {
	switch kind {
	case KindHeader:
		return Header{
			Logo:   getString(content, "logo"),
			Slogan: getString(content, "slogan"),
			Phone:  getString(content, "phone"),
			Email:  getString(content, "email"),
		}
	case KindHero:
		return Hero{
			Title:           getString(content, "title"),
			Subtitle:        getString(content, "subtitle"),
			Tagline:         getString(content, "tagline"),
			BackgroundImage: getString(content, "backgroundImage"),
			FormTitle:       getString(content, "formTitle"),
		}
	case KindAbout:
		return About{
			Title:    getString(content, "title"),
			Content:  getString(content, "content"),
			CtaText:  getString(content, "ctaText"),
			CtaPhone: getString(content, "ctaPhone"),
		}
	case KindWhyUs:
		return WhyUs{Title: getString(content, "title"), Items: decodeFeatures(content)}
	case KindWhyBookOnline:
		return WhyBookOnline{Title: getString(content, "title"), Items: decodeFeatures(content)}
	case KindPackages:
		packages := Packages{Title: getString(content, "title"), Items: []Package{}}
		for _, item := range getItems(content, "items") {
			packages.Items = append(packages.Items, decodePackage(item))
		}
		return packages
	default:
		return Footer{
			Phone:     getString(content, "phone"),
			Email:     getString(content, "email"),
			Links:     getStrings(content, "links"),
			Copyright: getString(content, "copyright"),
		}
	}
}

func decodeFeatures(content map[string]interface{}) []Feature {
	features := []Feature{}
	for _, item := range getItems(content, "items") {
		features = append(features, decodeFeature(item))
	}
	return features
}

func decodeFeature(item map[string]interface{}) Feature {
	return Feature{
		Icon:        getString(item, "icon"),
		Title:       getString(item, "title"),
		Description: getString(item, "description"),
	}
}

func decodePackage(item map[string]interface{}) Package {
	return Package{
		Image:      getString(item, "image"),
		Discount:   getString(item, "discount"),
		Title:      getString(item, "title"),
		Duration:   getString(item, "duration"),
		Inclusions: getStrings(item, "inclusions"),
		Price:      getString(item, "price"),
		Link:       getString(item, "link"),
	}
}

func decodeSlide(item map[string]interface{}) Slide {
	return Slide{
		Image:    getString(item, "image"),
		Title:    getString(item, "title"),
		Subtitle: getString(item, "subtitle"),
		Link:     getString(item, "link"),
	}
}

// FromRaw decodes a generic document. A sectionOrder that is not an array
// is treated as absent; non-string entries in it are dropped.
func FromRaw(raw map[string]interface{}) SectionMap {
	doc := SectionMap{Sections: make(map[string]Section, len(raw))}

	for key, value := range raw {
		if key == OrderKey {
			if list, ok := value.([]interface{}); ok {
				doc.Order = make([]string, 0, len(list))
				for _, entry := range list {
					if s, ok := entry.(string); ok && s != OrderKey {
						doc.Order = append(doc.Order, s)
					}
				}
			}
			continue
		}
		doc.Sections[key] = DecodeSection(key, value)
	}

	return doc
}

// Decode parses a JSON section document. Empty input or null yields an
// empty document.
func Decode(data []byte) (SectionMap, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return SectionMap{Sections: map[string]Section{}}, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return SectionMap{}, err
	}
	return FromRaw(raw), nil
}

func (m *SectionMap) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data)
	if err != nil {
		return err
	}
	*m = doc
	return nil
}

// MarshalJSON writes sectionOrder first, then sections in display order,
// then any sections outside the order sorted by key.
func (m SectionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	writeField := func(key string, value interface{}) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		name, _ := json.Marshal(key)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	if m.Order != nil {
		if err := writeField(OrderKey, m.Order); err != nil {
			return nil, err
		}
	}

	written := make(map[string]bool, len(m.Sections))
	for _, key := range m.Order {
		section, ok := m.Sections[key]
		if !ok || written[key] {
			continue
		}
		written[key] = true
		if err := writeField(key, encodable(section)); err != nil {
			return nil, err
		}
	}

	rest := make([]string, 0, len(m.Sections))
	for key := range m.Sections {
		if !written[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := writeField(key, encodable(m.Sections[key])); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode is MarshalJSON without the error for documents built by this
// package, which always encode.
func Encode(m SectionMap) []byte {
	data, err := m.MarshalJSON()
	if err != nil {
		return []byte("{}")
	}
	return data
}

// encodable returns a copy of section with nil slices replaced by empty ones
// so lists are never written as null.
func encodable(section Section) interface{} {
	switch s := section.(type) {
	case Unknown:
		return s.Value
	case WhyUs:
		s.Items = nonNil(s.Items)
		return s
	case WhyBookOnline:
		s.Items = nonNil(s.Items)
		return s
	case Packages:
		items := make([]Package, len(s.Items))
		for i, p := range s.Items {
			p.Inclusions = nonNil(p.Inclusions)
			items[i] = p
		}
		s.Items = items
		return s
	case Footer:
		s.Links = nonNil(s.Links)
		return s
	case Slider:
		s.Type = string(KindSlider)
		s.AutoplayInterval = NormalizeInterval(s.AutoplayInterval)
		s.Items = nonNil(s.Items)
		return s
	case TextBlock:
		s.Type = string(KindTextBlock)
		return s
	default:
		return section
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// toRaw converts a section back into the loose map form used for merging.
func toRaw(section Section) map[string]interface{} {
	if section == nil {
		return map[string]interface{}{}
	}
	data, err := json.Marshal(encodable(section))
	if err != nil {
		return map[string]interface{}{}
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return map[string]interface{}{}
	}
	return raw
}

// Clone returns a deep copy of the document.
func (m SectionMap) Clone() SectionMap {
	clone := SectionMap{Sections: make(map[string]Section, len(m.Sections))}
	clone.Order = cloneSlice(m.Order)
	for key, section := range m.Sections {
		clone.Sections[key] = cloneSection(section)
	}
	return clone
}

func cloneSection(section Section) Section {
	switch s := section.(type) {
	case WhyUs:
		s.Items = cloneSlice(s.Items)
		return s
	case WhyBookOnline:
		s.Items = cloneSlice(s.Items)
		return s
	case Packages:
		s.Items = cloneSlice(s.Items)
		for i := range s.Items {
			s.Items[i].Inclusions = cloneSlice(s.Items[i].Inclusions)
		}
		return s
	case Footer:
		s.Links = cloneSlice(s.Links)
		return s
	case Slider:
		s.Items = cloneSlice(s.Items)
		return s
	case Unknown:
		data, err := json.Marshal(s.Value)
		if err != nil {
			return s
		}
		var value interface{}
		_ = json.Unmarshal(data, &value)
		return Unknown{Value: value}
	default:
		return section
	}
}

// cloneSlice copies items, keeping nil and empty apart.
func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
