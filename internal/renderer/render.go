package renderer

import (
	"strings"

	"github.com/Kyz7/landing/internal/sections"
)

// Render builds the blocks for doc without page-level fallbacks.
func Render(doc sections.SectionMap) []Block {
	return RenderPage(Page{}, doc)
}

// RenderPage walks the document order and emits one block per displayable
// section. It never fails: missing sections and empty fields simply produce
// fewer blocks.
func RenderPage(page Page, doc sections.SectionMap) []Block {
	order := doc.Order
	if order == nil {
		order = sections.CanonicalOrder()
	}

	blocks := make([]Block, 0, len(order))
	aboutWhyUsDone := false

	for _, key := range order {
		if key == sections.OrderKey {
			continue
		}
		section := doc.Sections[key]

		switch sections.Kind(key) {
		case sections.KindHeader:
			blocks = append(blocks, headerBlock(key, page, section))
		case sections.KindHero:
			blocks = append(blocks, heroBlock(key, page, section))
		case sections.KindAbout, sections.KindWhyUs:
			if aboutWhyUsDone {
				continue
			}
			if block, ok := aboutWhyUsBlock(key, doc); ok {
				blocks = append(blocks, block)
				aboutWhyUsDone = true
			}
		case sections.KindPackages:
			if block, ok := packagesBlock(key, section); ok {
				blocks = append(blocks, block)
			}
		case sections.KindWhyBookOnline:
			if block, ok := whyBookOnlineBlock(key, section); ok {
				blocks = append(blocks, block)
			}
		case sections.KindFooter:
			blocks = append(blocks, footerBlock(key, section))
		default:
			if block, ok := dynamicBlock(key, section); ok {
				blocks = append(blocks, block)
			}
		}
	}

	return blocks
}

func headerBlock(key string, page Page, section sections.Section) Block {
	h, _ := section.(sections.Header)
	title := h.Slogan
	if title == "" {
		title = page.Name
	}
	return Block{Key: key, Kind: BlockHeader, Header: &HeaderBlock{
		Logo:  h.Logo,
		Title: title,
		Phone: h.Phone,
		Email: h.Email,
	}}
}

func heroBlock(key string, page Page, section sections.Section) Block {
	h, _ := section.(sections.Hero)
	title := h.Title
	if title == "" {
		title = page.Title
	}
	return Block{Key: key, Kind: BlockHero, Hero: &HeroBlock{
		Title:           title,
		Subtitle:        h.Subtitle,
		Tagline:         h.Tagline,
		BackgroundImage: h.BackgroundImage,
		FormTitle:       h.FormTitle,
		EnquiryForm:     h.FormTitle != "",
	}}
}

func aboutWhyUsBlock(key string, doc sections.SectionMap) (Block, bool) {
	about, _ := doc.Sections[string(sections.KindAbout)].(sections.About)
	whyUs, _ := doc.Sections[string(sections.KindWhyUs)].(sections.WhyUs)
	if about.Title == "" && whyUs.Title == "" {
		return Block{}, false
	}

	block := &AboutWhyUsBlock{}
	if about.Title != "" {
		block.About = &AboutBlock{
			Title:    about.Title,
			Content:  about.Content,
			CtaText:  about.CtaText,
			CtaPhone: about.CtaPhone,
			ShowCta:  about.CtaText != "" && about.CtaPhone != "",
		}
	}
	if whyUs.Title != "" {
		block.WhyUs = &FeaturesBlock{Title: whyUs.Title, Items: nonNil(whyUs.Items)}
	}
	return Block{Key: key, Kind: BlockAboutWhyUs, AboutWhyUs: block}, true
}

func packagesBlock(key string, section sections.Section) (Block, bool) {
	p, _ := section.(sections.Packages)
	if p.Title == "" {
		return Block{}, false
	}

	cards := make([]PackageCard, 0, len(p.Items))
	for _, item := range p.Items {
		card := PackageCard{
			Image:      item.Image,
			Title:      item.Title,
			Duration:   item.Duration,
			Price:      item.Price,
			Link:       item.Link,
			Inclusions: NewInclusionList(item.Inclusions),
		}
		if item.Discount != "" {
			card.DiscountLabel = strings.TrimSuffix(item.Discount, "%") + "% OFF"
		}
		cards = append(cards, card)
	}

	return Block{Key: key, Kind: BlockPackages, Packages: &PackagesBlock{Title: p.Title, Cards: cards}}, true
}

func whyBookOnlineBlock(key string, section sections.Section) (Block, bool) {
	w, _ := section.(sections.WhyBookOnline)
	if w.Title == "" {
		return Block{}, false
	}
	return Block{Key: key, Kind: BlockWhyBookOnline, WhyBookOnline: &FeaturesBlock{
		Title: w.Title,
		Items: nonNil(w.Items),
	}}, true
}

func footerBlock(key string, section sections.Section) Block {
	f, _ := section.(sections.Footer)
	return Block{Key: key, Kind: BlockFooter, Footer: &FooterBlock{
		Phone:     f.Phone,
		Email:     f.Email,
		Links:     nonNil(f.Links),
		Copyright: f.Copyright,
	}}
}

func dynamicBlock(key string, section sections.Section) (Block, bool) {
	switch s := section.(type) {
	case sections.Slider:
		slides := make([]sections.Slide, 0, len(s.Items))
		for _, slide := range s.Items {
			if slide.Image != "" {
				slides = append(slides, slide)
			}
		}
		if len(slides) == 0 {
			return Block{}, false
		}
		interval := sections.NormalizeInterval(s.AutoplayInterval)
		return Block{Key: key, Kind: BlockSlider, Slider: &SliderBlock{
			Title:    s.Title,
			Slides:   slides,
			Autoplay: s.Autoplay,
			Interval: interval,
			Carousel: NewCarousel(len(slides), s.Autoplay, interval),
		}}, true
	case sections.TextBlock:
		if s.Title == "" && s.Content == "" {
			return Block{}, false
		}
		return Block{Key: key, Kind: BlockTextBlock, TextBlock: &TextBlockBlock{
			Title:   s.Title,
			Content: s.Content,
			HTML:    Markdown(s.Content),
		}}, true
	default:
		return Block{}, false
	}
}

// Kinds lists the block kinds in order.
func Kinds(blocks []Block) []BlockKind {
	kinds := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}
	return kinds
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
