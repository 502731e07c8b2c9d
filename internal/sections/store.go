package sections

import (
	"context"
	"sync"
)

// Persister stores a full section document. version is the version the
// document was loaded at; the returned value is the new stored version.
type Persister interface {
	SaveSections(ctx context.Context, pageID uint, doc SectionMap, version int) (int, error)
}

// Store is the editing state of one page's section document.
type Store struct {
	mu        sync.Mutex
	pageID    uint
	doc       SectionMap
	version   int
	dirty     bool
	active    string
	keys      *KeyGenerator
	persister Persister
}

type StoreOption func(*Store)

func WithKeyGenerator(keys *KeyGenerator) StoreOption {
	return func(s *Store) {
		if keys != nil {
			s.keys = keys
		}
	}
}

// NewStore takes ownership of a copy of doc. Callers normally pass a
// hydrated document.
func NewStore(pageID uint, doc SectionMap, version int, persister Persister, opts ...StoreOption) *Store {
	s := &Store{
		pageID:    pageID,
		doc:       doc.Clone(),
		version:   version,
		keys:      defaultKeys,
		persister: persister,
	}
	if s.doc.Sections == nil {
		s.doc.Sections = map[string]Section{}
	}
	if s.doc.Order == nil {
		s.doc.Order = []string{}
	}
	if len(s.doc.Order) > 0 {
		s.active = s.doc.Order[0]
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() SectionMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

func (s *Store) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Store) Select(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.IndexOf(key) < 0 {
		return ErrSectionNotFound
	}
	s.active = key
	return nil
}

// UpdateSection shallow-merges patch into the section at key, creating the
// section when it does not exist yet. Field types are not checked; values
// that do not fit the section shape decode to zero values.
func (s *Store) UpdateSection(key string, patch map[string]interface{}) error {
	if key == "" || key == OrderKey {
		return ErrReservedKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := toRaw(s.doc.Sections[key])
	for field, value := range patch {
		merged[field] = value
	}
	s.doc.Sections[key] = DecodeSection(key, merged)
	s.dirty = true
	return nil
}

// MoveSectionUp swaps key with its predecessor. It reports false when key
// is first or not in the order.
func (s *Store) MoveSectionUp(key string) bool {
	return s.move(key, -1)
}

// MoveSectionDown swaps key with its successor. It reports false when key
// is last or not in the order.
func (s *Store) MoveSectionDown(key string) bool {
	return s.move(key, 1)
}

func (s *Store) move(key string, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.doc.IndexOf(key)
	j := i + delta
	if i < 0 || j < 0 || j >= len(s.doc.Order) {
		return false
	}
	s.doc.Order[i], s.doc.Order[j] = s.doc.Order[j], s.doc.Order[i]
	s.dirty = true
	return true
}

// AddSection inserts a new slider or textBlock section right before the
// footer, selects it and returns its key.
func (s *Store) AddSection(kind string) (string, error) {
	section, ok := NewSection(kind)
	if !ok {
		return "", ErrUnknownSectionType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.keys.Next(kind)
	for s.taken(key) {
		key = s.keys.Next(kind)
	}

	at := s.doc.IndexOf(string(KindFooter))
	if at < 0 {
		at = len(s.doc.Order)
	}
	order := make([]string, 0, len(s.doc.Order)+1)
	order = append(order, s.doc.Order[:at]...)
	order = append(order, key)
	order = append(order, s.doc.Order[at:]...)

	s.doc.Order = order
	s.doc.Sections[key] = section
	s.active = key
	s.dirty = true
	return key, nil
}

func (s *Store) taken(key string) bool {
	if _, ok := s.doc.Sections[key]; ok {
		return true
	}
	return s.doc.IndexOf(key) >= 0
}

// RemoveSection deletes key from both the map and the order. Header, hero
// and footer are never removed; false is returned for them and for keys
// the document does not know.
func (s *Store) RemoveSection(key string) bool {
	if IsProtectedKey(key) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.taken(key) {
		return false
	}

	order := make([]string, 0, len(s.doc.Order))
	for _, k := range s.doc.Order {
		if k != key {
			order = append(order, k)
		}
	}
	s.doc.Order = order
	delete(s.doc.Sections, key)

	if s.active == key {
		s.active = ""
		if len(order) > 0 {
			s.active = order[0]
		}
	}
	s.dirty = true
	return true
}

// Save hands the whole document to the persister. On failure nothing in
// memory changes and the persister's error is returned as is.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.persister.SaveSections(ctx, s.pageID, s.doc.Clone(), s.version)
	if err != nil {
		return err
	}
	s.version = version
	s.dirty = false
	return nil
}
