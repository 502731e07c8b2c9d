// Package renderer turns a section document into an ordered list of
// display blocks and renders them as the public landing page.
package renderer

import (
	"html/template"

	"github.com/Kyz7/landing/internal/sections"
)

type BlockKind string

const (
	BlockHeader        BlockKind = "header"
	BlockHero          BlockKind = "hero"
	BlockAboutWhyUs    BlockKind = "aboutWhyUs"
	BlockPackages      BlockKind = "packages"
	BlockWhyBookOnline BlockKind = "whyBookOnline"
	BlockFooter        BlockKind = "footer"
	BlockSlider        BlockKind = "slider"
	BlockTextBlock     BlockKind = "textBlock"
)

// Page carries the page-level fallbacks used when a section leaves a field
// empty.
type Page struct {
	Name  string
	Title string
}

// Block is one rendered unit. Exactly one of the payload pointers matching
// Kind is set.
type Block struct {
	Key  string
	Kind BlockKind

	Header        *HeaderBlock
	Hero          *HeroBlock
	AboutWhyUs    *AboutWhyUsBlock
	Packages      *PackagesBlock
	WhyBookOnline *FeaturesBlock
	Footer        *FooterBlock
	Slider        *SliderBlock
	TextBlock     *TextBlockBlock
}

type HeaderBlock struct {
	Logo  string
	Title string
	Phone string
	Email string
}

type HeroBlock struct {
	Title           string
	Subtitle        string
	Tagline         string
	BackgroundImage string
	FormTitle       string
	EnquiryForm     bool
}

type AboutBlock struct {
	Title    string
	Content  string
	CtaText  string
	CtaPhone string
	ShowCta  bool
}

type FeaturesBlock struct {
	Title string
	Items []sections.Feature
}

// AboutWhyUsBlock is the two-column block; either half may be nil.
type AboutWhyUsBlock struct {
	About *AboutBlock
	WhyUs *FeaturesBlock
}

type PackageCard struct {
	Image         string
	Title         string
	Duration      string
	Price         string
	Link          string
	DiscountLabel string
	Inclusions    *InclusionList
}

type PackagesBlock struct {
	Title string
	Cards []PackageCard
}

type FooterBlock struct {
	Phone     string
	Email     string
	Links     []string
	Copyright string
}

type SliderBlock struct {
	Title    string
	Slides   []sections.Slide
	Autoplay bool
	Interval int
	Carousel *Carousel
}

type TextBlockBlock struct {
	Title   string
	Content string
	HTML    template.HTML
}
