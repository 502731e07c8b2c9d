package sections

import "sort"

// DefaultSections returns the empty skeleton a page starts from when it has
// no stored sections.
func DefaultSections() SectionMap {
	return SectionMap{
		Order: CanonicalOrder(),
		Sections: map[string]Section{
			string(KindHeader):        Header{},
			string(KindHero):          Hero{},
			string(KindAbout):         About{},
			string(KindWhyUs):         WhyUs{Items: []Feature{}},
			string(KindPackages):      Packages{Items: []Package{}},
			string(KindWhyBookOnline): WhyBookOnline{Items: []Feature{}},
			string(KindFooter):        Footer{Links: []string{}},
		},
	}
}

// NewSection returns the initial payload for a user-added section kind.
func NewSection(kind string) (Section, bool) {
	switch Kind(kind) {
	case KindSlider:
		return Slider{
			Type:             string(KindSlider),
			AutoplayInterval: DefaultAutoplayInterval,
			Items:            []Slide{{}},
		}, true
	case KindTextBlock:
		return TextBlock{Type: string(KindTextBlock)}, true
	}
	return nil, false
}

// Hydrate fills a loaded document up to a complete one. For every fixed key
// the default payload is overlaid field by field with the loaded payload, so
// loaded values win and defaults fill the gaps. Other keys are kept as they
// are. A missing order becomes the canonical order with any extra keys
// before the footer; an order that lost header, hero or footer gets them
// back.
func Hydrate(loaded SectionMap) SectionMap {
	defaults := DefaultSections()
	doc := SectionMap{Sections: make(map[string]Section, len(loaded.Sections)+len(defaults.Sections))}

	for key, section := range defaults.Sections {
		doc.Sections[key] = section
	}
	for key, section := range loaded.Sections {
		if def, ok := defaults.Sections[key]; ok {
			doc.Sections[key] = overlay(key, def, section)
			continue
		}
		doc.Sections[key] = cloneSection(section)
	}

	if loaded.Order == nil {
		doc.Order = canonicalWith(loaded)
	} else {
		doc.Order = repairOrder(loaded.Order)
	}

	return doc
}

func overlay(key string, base, loaded Section) Section {
	merged := toRaw(base)
	for field, value := range toRaw(loaded) {
		merged[field] = value
	}
	return DecodeSection(key, merged)
}

func canonicalWith(loaded SectionMap) []string {
	var extra []string
	for key := range loaded.Sections {
		if !IsFixedKey(key) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	order := CanonicalOrder()
	footer := len(order) - 1
	out := make([]string, 0, len(order)+len(extra))
	out = append(out, order[:footer]...)
	out = append(out, extra...)
	return append(out, order[footer])
}

func repairOrder(order []string) []string {
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(order)+3)
	for _, key := range order {
		if key == "" || key == OrderKey || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}

	header, hero, footer := string(KindHeader), string(KindHero), string(KindFooter)
	if !seen[header] {
		out = append([]string{header}, out...)
	}
	if !seen[hero] {
		at := 0
		for i, key := range out {
			if key == header {
				at = i + 1
				break
			}
		}
		out = append(out[:at], append([]string{hero}, out[at:]...)...)
	}
	if !seen[footer] {
		out = append(out, footer)
	}
	return out
}
