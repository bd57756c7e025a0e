// Package swaggerkit serves the API reference at /api/docs
package swaggerkit

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	phttp "lorebook/internal/platform/net/http"
)

const (
	docsRoot = "/api/docs"
	docsJSON = docsRoot + "/doc.json"
)

// Mount serves the swagger UI and its document when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.InstanceName("lorebook"),
		httpSwagger.URL(docsJSON),
		httpSwagger.DocExpansion("none"),
	)
	r.Get(docsRoot, http.RedirectHandler(docsRoot+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(docsJSON, serveDocJSON())
	r.Handle(docsRoot+"/*", ui)
}
