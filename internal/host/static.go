package host

import (
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

func init() {
	// instantiateStreaming requires application/wasm.
	mime.AddExtensionType(".wasm", "application/wasm")
}

// staticRelPath returns the sanitized path of a static asset relative to the
// static directory. Traversal, absolute paths and NUL bytes are rejected.
func staticRelPath(prefix, urlPath string) (string, bool) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	rel, ok := strings.CutPrefix(urlPath, prefix)
	if !ok || rel == "" {
		return "", false
	}

	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") || strings.HasPrefix(rel, "/") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", false
	}

	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

// serveStatic serves files below the static prefix from s.static.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if s.static == nil {
		http.NotFound(w, r)
		return
	}

	rel, ok := staticRelPath(s.cfg.Server.Static.Prefix, r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := s.static.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// The wasm binary changes on every build.
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, rel, info.ModTime(), rs)
}
