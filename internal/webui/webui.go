// Package webui serves the non-API surface: the operator debug pages and
// the static marketing site.
package webui

import (
	"net/http"

	"stopboard.opentransit.org/internal/app"
)

type WebUI struct {
	*app.Application
}

func NewWebUI(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

func (webUI *WebUI) SetWebUIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug", webUI.debugIndexHandler)
	mux.HandleFunc("GET /marketing/", webUI.marketingHandler)
}
