package receipt

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type pageView struct {
	Title         string
	Page          Page
	CellWidthPct  float64
	CellHeightPct float64
	Guides        bool
}

// RenderHTML renders the page as a standalone A4 HTML document. Cut guides
// are drawn on screen and hidden when printed.
func RenderHTML(p Page) ([]byte, error) {
	if p.Layout.Columns <= 0 || p.Layout.Rows <= 0 {
		return nil, fmt.Errorf("receipt: invalid layout %+v", p.Layout)
	}

	view := pageView{
		Title:         "Bills",
		Page:          p,
		CellWidthPct:  100 / float64(p.Layout.Columns),
		CellHeightPct: 100 / float64(p.Layout.Rows),
		Guides:        true,
	}

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html", view); err != nil {
		return nil, fmt.Errorf("receipt: render page: %w", err)
	}
	return buf.Bytes(), nil
}
