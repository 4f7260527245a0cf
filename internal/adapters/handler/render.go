package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{"list.html", "form.html", "confirm.html", "login.html", "error.html"}

// Renderer executes the page templates. Each page is parsed together with
// the layout so pages can share block names.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, page := range pageFiles {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Page renders a full page, or only the named fragment when the request
// comes from htmx and fragment is set.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, page, fragment string, data any) {
	name := "layout"
	if fragment != "" && r.Header.Get("HX-Request") == "true" {
		name = fragment
	}
	rd.execute(w, status, page, name, data)
}

func (rd *Renderer) execute(w http.ResponseWriter, status int, page, name string, data any) {
	t, ok := rd.pages[page]
	if !ok {
		log.Printf("render: unknown page %s", page)
		http.Error(w, "Ocurrió un error inesperado", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render: %s/%s: %v", page, name, err)
		http.Error(w, "Ocurrió un error inesperado", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("render: write %s: %v", page, err)
	}
}
