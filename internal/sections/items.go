package sections

func hasItems(section Section) bool {
	switch section.(type) {
	case WhyUs, WhyBookOnline, Packages, Slider:
		return true
	}
	return false
}

func newItem(kind Kind) map[string]interface{} {
	switch kind {
	case KindPackages:
		return map[string]interface{}{
			"image":      "",
			"discount":   "",
			"title":      "",
			"duration":   "",
			"inclusions": []interface{}{},
			"price":      "",
			"link":       "#",
		}
	case KindSlider:
		return map[string]interface{}{"image": "", "title": "", "subtitle": "", "link": ""}
	default:
		return map[string]interface{}{"icon": "badge", "title": "", "description": ""}
	}
}

// editItems runs edit over the raw item list of the section at key and
// stores the result. A fixed list section missing from the document starts
// from its default.
func (s *Store) editItems(key string, edit func(items []interface{}, kind Kind) ([]interface{}, error)) error {
	section, ok := s.doc.Sections[key]
	if !ok {
		if !IsFixedKey(key) {
			return ErrSectionNotFound
		}
		section = DefaultSections().Sections[key]
	}
	if !hasItems(section) {
		return ErrNotListSection
	}

	raw := toRaw(section)
	items, _ := raw["items"].([]interface{})
	items, err := edit(items, section.Kind())
	if err != nil {
		return err
	}

	raw["items"] = items
	s.doc.Sections[key] = DecodeSection(key, raw)
	s.dirty = true
	return nil
}

// AddItem appends a blank item to a list section and returns its index.
func (s *Store) AddItem(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	err := s.editItems(key, func(items []interface{}, kind Kind) ([]interface{}, error) {
		index = len(items)
		return append(items, newItem(kind)), nil
	})
	return index, err
}

// UpdateItem sets one field of the item at index. For package inclusions a
// string value is split into lines.
func (s *Store) UpdateItem(key string, index int, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editItems(key, func(items []interface{}, kind Kind) ([]interface{}, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrIndexOutOfRange
		}
		if kind == KindPackages && field == "inclusions" {
			if text, ok := value.(string); ok {
				value = toInterfaces(SplitLines(text))
			}
		}

		item := asMap(items[index])
		updated := make(map[string]interface{}, len(item)+1)
		for k, v := range item {
			updated[k] = v
		}
		updated[field] = value
		items[index] = updated
		return items, nil
	})
}

// RemoveItem splices out the item at index.
func (s *Store) RemoveItem(key string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.editItems(key, func(items []interface{}, _ Kind) ([]interface{}, error) {
		if index < 0 || index >= len(items) {
			return nil, ErrIndexOutOfRange
		}
		out := make([]interface{}, 0, len(items)-1)
		out = append(out, items[:index]...)
		return append(out, items[index+1:]...), nil
	})
}

func (s *Store) AddPackage() (int, error) {
	return s.AddItem(string(KindPackages))
}

func (s *Store) UpdatePackage(index int, field string, value interface{}) error {
	return s.UpdateItem(string(KindPackages), index, field, value)
}

func (s *Store) RemovePackage(index int) error {
	return s.RemoveItem(string(KindPackages), index)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
