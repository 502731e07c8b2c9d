package renderer

import (
	"embed"
	"html/template"
	"io"
	"strings"
	"sync"
)

//go:embed templates/*.html
var templateFiles embed.FS

// PageView is everything the public page template needs.
type PageView struct {
	Name            string
	Title           string
	MetaDescription string
	Slug            string
	EnquiryAction   string
	Preview         bool
	Blocks          []Block
	Form            FormState
}

// blockView lets a block template reach page-level state such as the form.
type blockView struct {
	Block Block
	View  PageView
}

type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("landing").Funcs(template.FuncMap{
		"telHref": telHref,
		"bgStyle": bgStyle,
		"seq":     seq,
		"withView": func(b Block, v PageView) blockView {
			return blockView{Block: b, View: v}
		},
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// MustHTMLRenderer panics when the embedded templates do not parse.
func MustHTMLRenderer() *HTMLRenderer {
	r, err := NewHTMLRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

var shared = sync.OnceValue(MustHTMLRenderer)

// Default returns a process-wide renderer.
func Default() *HTMLRenderer {
	return shared()
}

func (r *HTMLRenderer) Page(w io.Writer, view PageView) error {
	return r.tmpl.ExecuteTemplate(w, "page.html", view)
}

func (r *HTMLRenderer) NotFound(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "notfound.html", nil)
}

func telHref(phone string) template.URL {
	var b strings.Builder
	b.WriteString("tel:")
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL(b.String())
}

// bgStyle builds the hero background; the image URL is escaped for CSS.
func bgStyle(image string) template.CSS {
	if !safeURL(image) {
		return template.CSS("background: linear-gradient(135deg, #0d9488, #14b8a6)")
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", "", "\r", "", `)`, `\)`).Replace(image)
	return template.CSS("background: linear-gradient(rgba(0,0,0,0.4), rgba(0,0,0,0.4)), url('" + escaped + "') center/cover")
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func safeURL(u string) bool {
	return strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") ||
		(strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//"))
}
