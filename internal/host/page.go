package host

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/vango-dev/dropzone/internal/config"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// pageData is the template input for the upload page.
type pageData struct {
	Title    string
	Elements config.ElementsConfig
	Static   string

	// Config is rendered as JSON inside the config script element.
	Config *config.Config
}

// browserConfig returns the subset of cfg the browser build needs.
// Server and S3 settings stay on the host.
func browserConfig(cfg *config.Config) *config.Config {
	c := *cfg
	c.Server = config.ServerConfig{}
	c.S3 = config.S3Config{}
	return &c
}

func (s *Server) renderPage() ([]byte, error) {
	title := s.cfg.Name
	if title == "" {
		title = "Dropzone"
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:    title,
		Elements: s.cfg.Elements,
		Static:   s.cfg.Server.Static.Prefix,
		Config:   browserConfig(s.cfg),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	body, err := s.renderPage()
	if err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if r.Method == http.MethodHead {
		return
	}
	w.Write(body)
}
