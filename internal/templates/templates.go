package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed html/*.html
var files embed.FS

var pageNames = []string{"home", "demo"}

// Renderer holds one template set per page. Every page extends base.html
// and may override its "title", "content" and "appjs" blocks.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, page := range pageNames {
		t, err := template.New("base.html").ParseFS(files, "html/base.html", "html/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", page, err)
		}
		pages[page] = t
	}

	return &Renderer{pages: pages}, nil
}

func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}

	return r
}

// Render writes the named page to w. Rendering is a single stateless pass
// over the supplied view context.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	return t.ExecuteTemplate(w, "base.html", data)
}
