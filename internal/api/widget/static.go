// Package widget serves the embeddable chat widget script.
package widget

import (
	"embed"
	"net/http"
)

//go:embed chatWidget.js
var assetFS embed.FS

func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chatWidget.js" {
			http.NotFound(w, r)
			return
		}
		script, err := assetFS.ReadFile("chatWidget.js")
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		_, _ = w.Write(script)
	})
}
