package overlay

import (
	"encoding/json"
	"net/http"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
)

// snapshotPolicy sanitizes host snapshots before serving them as HTML;
// the observed page is untrusted input.
var snapshotPolicy = bluemonday.UGCPolicy()

// RegisterHTTP mounts the debug surface: the three zero-argument control
// operations plus state and snapshot inspection.
func (k *Keeper) RegisterHTTP(r chi.Router) {
	r.Route("/debug", func(r chi.Router) {
		r.Post("/show", func(w http.ResponseWriter, _ *http.Request) {
			k.Show()
			respondJSON(w, k.State())
		})
		r.Post("/hide", func(w http.ResponseWriter, _ *http.Request) {
			k.Hide()
			respondJSON(w, k.State())
		})
		r.Post("/reset", func(w http.ResponseWriter, _ *http.Request) {
			k.Reset()
			respondJSON(w, k.State())
		})
		r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, k.State())
		})
		r.Get("/snapshot", k.handleSnapshot)
	})
}

func (k *Keeper) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	raw := string(k.Snapshot())

	switch r.URL.Query().Get("format") {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(snapshotPolicy.Sanitize(raw)))

	case "markdown":
		md, err := htmltomarkdown.ConvertString(raw)
		if err != nil {
			http.Error(w, "convert snapshot: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))

	default:
		respondJSON(w, map[string]any{
			"path":  k.State().Path,
			"bytes": len(raw),
			"html":  raw,
		})
	}
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
