// Package sections holds the landing page section document: a keyed set of
// heterogeneous sections plus the order they are displayed in.
package sections

// Kind discriminates section payloads.
type Kind string

const (
	KindHeader        Kind = "header"
	KindHero          Kind = "hero"
	KindAbout         Kind = "about"
	KindWhyUs         Kind = "whyUs"
	KindPackages      Kind = "packages"
	KindWhyBookOnline Kind = "whyBookOnline"
	KindFooter        Kind = "footer"
	KindSlider        Kind = "slider"
	KindTextBlock     Kind = "textBlock"
	KindUnknown       Kind = "unknown"
)

// OrderKey is the reserved document key holding the display order.
const OrderKey = "sectionOrder"

const (
	DefaultAutoplayInterval = 4000
	MinAutoplayInterval     = 2000
)

// Section is implemented by every section payload type.
type Section interface {
	Kind() Kind
}

type Header struct {
	Logo   string `json:"logo"`
	Slogan string `json:"slogan"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

type Hero struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	Tagline         string `json:"tagline"`
	BackgroundImage string `json:"backgroundImage"`
	FormTitle       string `json:"formTitle"`
}

type About struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CtaText  string `json:"ctaText"`
	CtaPhone string `json:"ctaPhone"`
}

type Feature struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type WhyUs struct {
	Title string    `json:"title"`
	Items []Feature `json:"items"`
}

type WhyBookOnline struct {
	Title string    `json:"title"`
	Items []Feature `json:"items"`
}

type Package struct {
	Image      string   `json:"image"`
	Discount   string   `json:"discount"`
	Title      string   `json:"title"`
	Duration   string   `json:"duration"`
	Inclusions []string `json:"inclusions"`
	Price      string   `json:"price"`
	Link       string   `json:"link"`
}

type Packages struct {
	Title string    `json:"title"`
	Items []Package `json:"items"`
}

type Footer struct {
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Links     []string `json:"links"`
	Copyright string   `json:"copyright"`
}

type Slide struct {
	Image    string `json:"image"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Link     string `json:"link"`
}

type Slider struct {
	Type             string  `json:"type"`
	Title            string  `json:"title"`
	Autoplay         bool    `json:"autoplay"`
	AutoplayInterval int     `json:"autoplayInterval"`
	Items            []Slide `json:"items"`
}

type TextBlock struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Unknown keeps a payload that matches no known kind so it survives a
// re-save untouched.
type Unknown struct {
	Value any
}

func (Header) Kind() Kind        { return KindHeader }
func (Hero) Kind() Kind          { return KindHero }
func (About) Kind() Kind         { return KindAbout }
func (WhyUs) Kind() Kind         { return KindWhyUs }
func (WhyBookOnline) Kind() Kind { return KindWhyBookOnline }
func (Packages) Kind() Kind      { return KindPackages }
func (Footer) Kind() Kind        { return KindFooter }
func (Slider) Kind() Kind        { return KindSlider }
func (TextBlock) Kind() Kind     { return KindTextBlock }
func (Unknown) Kind() Kind       { return KindUnknown }

// SectionMap is the whole section document. A nil Order means the document
// carried no usable sectionOrder.
type SectionMap struct {
	Order    []string
	Sections map[string]Section
}

func (m SectionMap) Get(key string) (Section, bool) {
	s, ok := m.Sections[key]
	return s, ok
}

// IndexOf returns the position of key in Order, or -1.
func (m SectionMap) IndexOf(key string) int {
	for i, k := range m.Order {
		if k == key {
			return i
		}
	}
	return -1
}

// CanonicalOrder is the display order used when a document has none.
func CanonicalOrder() []string {
	return []string{
		string(KindHeader),
		string(KindHero),
		string(KindAbout),
		string(KindWhyUs),
		string(KindPackages),
		string(KindWhyBookOnline),
		string(KindFooter),
	}
}

// IsFixedKey reports whether key names one of the built-in sections.
func IsFixedKey(key string) bool {
	switch Kind(key) {
	case KindHeader, KindHero, KindAbout, KindWhyUs, KindPackages, KindWhyBookOnline, KindFooter:
		return true
	}
	return false
}

// IsProtectedKey reports whether key can never be removed.
func IsProtectedKey(key string) bool {
	switch Kind(key) {
	case KindHeader, KindHero, KindFooter:
		return true
	}
	return false
}

// IsDynamicKind reports whether kind can be added by users.
func IsDynamicKind(kind string) bool {
	return kind == string(KindSlider) || kind == string(KindTextBlock)
}
