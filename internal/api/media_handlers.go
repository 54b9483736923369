package api

import (
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Media files are served straight from disk on a plain chi route; huma (and
// the response envelope) only wraps the JSON API.
func (s *Server) registerMediaRoutes() {
	s.router.Get("/media/*", s.handleServeImage)
}

func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	// Keys nest under the media root (recipes/<uuid>.jpg), so the route is
	// a catch-all and the key is everything after /media/.
	key := chi.URLParam(r, "*")
	if key == "" {
		http.Error(w, "path required", http.StatusBadRequest)
		return
	}

	// Hash first: a matching If-None-Match skips reading the file twice.
	hash, err := s.storage.Hash(key)
	if err != nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	etag := `"` + hash + `"`
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := s.storage.Get(key)
	if err != nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentTypeForKey(key))
	w.Header().Set("Cache-Control", CacheOneDay)
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// contentTypeForKey maps a stored image key to its MIME type by extension.
func contentTypeForKey(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
