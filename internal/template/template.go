package template

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames lists every page parsed on top of base.html.
var pageNames = []string{
	"login.html",
	"home.html",
	"countries.html",
	"country.html",
	"regions.html",
	"region.html",
	"facts.html",
	"about.html",
	"contact.html",
	"error.html",
}

// truncate shortens s to n runes with a trailing ellipsis. Blank text reads "N/A".
func truncate(s string, n int) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:max(n, 0)]) + "..."
}

// formatNumber groups digits in thousands with commas.
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	var result strings.Builder
	result.WriteString(sign)
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}

// orNA joins values or returns "N/A" when there are none.
func orNA(values []string) string {
	if len(values) == 0 {
		return "N/A"
	}
	return strings.Join(values, ", ")
}

// pageURL adds a page parameter to path.
func pageURL(path string, page int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}

// funcMap provides custom template functions.
var funcMap = template.FuncMap{
	"add": func(a, b int) int {
		return a + b
	},
	"truncate":     truncate,
	"formatNumber": formatNumber,
	"join":         orNA,
	"lower":        strings.ToLower,
	"pageNumber": func(page int) int {
		return page + 1
	},
	"pageURL": pageURL,
	"percent": func(d decimal.Decimal) string {
		return d.StringFixed(2) + "%"
	},
	"countryURL": func(name string) string {
		return "/countries/" + url.PathEscape(name)
	},
	"markdown": func(s string) template.HTML {
		extensions := blackfriday.CommonExtensions | blackfriday.Autolink
		renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags,
		})
		unsafe := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))
		safe := bluemonday.UGCPolicy().SanitizeBytes(unsafe)
		return template.HTML(safe)
	},
}

// Templates holds parsed HTML templates.
type Templates struct {
	pages map[string]*template.Template
}

// New parses and returns all templates.
func New() (*Templates, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	for _, name := range pageNames {
		pageTemplate, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}

		_, err = pageTemplate.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		pages[name] = pageTemplate
	}

	return &Templates{pages: pages}, nil
}

// Render executes the named template with the given data.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
