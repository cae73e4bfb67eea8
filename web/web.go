// Package web holds the embedded HTML views for the staff dashboard. Every
// page is rendered server-side from a shared layout; the sidebar consults
// the session snapshot so links the user lacks permission for render locked
// rather than hidden.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mealpoint/staffdesk/session"
)

//go:embed templates/*.html
var content embed.FS

// Page is the data handed to every template.
type Page struct {
	Title  string
	Active string // sidebar entry to highlight
	Snap   session.Snapshot
	Flash  string            // one-shot notice
	Errors map[string]string // inline field errors
	Next   string            // post-sign-in return path
	Data   any               // page-specific payload
}

// FieldError returns the inline error for a form field, if any.
func (p Page) FieldError(field string) string {
	return p.Errors[field]
}

// Views renders the embedded templates. Each page is parsed against the
// shared layout once at startup.
type Views struct {
	pages map[string]*template.Template
}

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"can": func(snap session.Snapshot, kind string) bool {
		return snap.HasPermission(session.Permission(kind))
	},
	"money": func(v float64) string {
		return printer.Sprintf("₹%.2f", v)
	},
	"count": func(v int) string {
		return printer.Sprintf("%d", v)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Local().Format("02 Jan 2006 15:04")
	},
}

// NewViews parses the embedded template set.
func NewViews() (*Views, error) {
	names, err := fs.Glob(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing embedded templates: %w", err)
	}
	v := &Views{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(content, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", base, err)
		}
		v.pages[base] = t
	}
	return v, nil
}

// Render writes the named page. Unknown names are a programming error.
func (v *Views) Render(w io.Writer, name string, p Page) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", p)
}
