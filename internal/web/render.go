package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

func (s *Server) render(w http.ResponseWriter, page string, data map[string]any) {
	t, err := s.templateFor(page)
	if err != nil {
		s.Log.Error("template parse", zap.String("page", page), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		s.Log.Error("template execute", zap.String("page", page), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderPosts renders only the post list, as pushed to live views.
func (s *Server) renderPosts(data map[string]any) (string, error) {
	t, err := s.templateFor("index.html")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := t.ExecuteTemplate(&b, "posts", data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) templateFor(page string) (*template.Template, error) {
	s.templateMu.Lock()
	defer s.templateMu.Unlock()

	if t, ok := s.templateCache[page]; ok {
		return t, nil
	}

	t, err := template.New("").Funcs(template.FuncMap{
		"title": s.renderTitle,
	}).ParseFS(templateFS,
		"templates/base.html",
		"templates/posts.html",
		"templates/"+page,
	)
	if err != nil {
		return nil, err
	}
	s.templateCache[page] = t
	return t, nil
}

// renderTitle renders a post title as inline markdown. Raw HTML in a title is
// omitted by goldmark's default renderer.
func (s *Server) renderTitle(input string) template.HTML {
	var b strings.Builder
	if err := s.markdown.Convert([]byte(input), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	out := strings.TrimSpace(b.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return template.HTML(out)
}
