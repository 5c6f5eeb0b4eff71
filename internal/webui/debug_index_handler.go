package webui

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"stopboard.opentransit.org/internal/appconf"
)

//go:embed debug_index.html
var templateFS embed.FS

type debugData struct {
	Title string
	Pre   string
}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	content := spew.Sdump(data)
	w.Header().Set("Content-Type", "text/html")
	tmpl, err := template.ParseFS(templateFS, "debug_index.html")
	if err != nil {
		slog.Error("failed to parse debug template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dataStruct := debugData{
		Title: title,
		Pre:   content,
	}

	err = tmpl.Execute(w, dataStruct)
	if err != nil {
		slog.Error("failed to execute debug template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// debugIndexHandler dumps pieces of the imported dataset for inspection.
// Disabled in production.
func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	if webUI.Config.Env == appconf.Production {
		http.NotFound(w, r)
		return
	}

	if webUI.TransitManager == nil {
		http.Error(w, "transit manager not initialized", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	queries := webUI.TransitManager.DB().Queries
	dataType := r.URL.Query().Get("dataType")

	var data interface{}
	var title string

	switch dataType {
	case "import":
		row, err := queries.GetImportMetadata(ctx)
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = row
		}
		title = "Feed Import - Metadata"
	case "stops":
		coords, err := queries.ListStopCoordinates(ctx)
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = coords
		}
		title = "Feed Import - Stop Coordinates"
	case "counts":
		count, err := queries.CountStops(ctx)
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = map[string]int64{"stops": count}
		}
		title = "Feed Import - Counts"
	default:
		data = map[string]string{
			"error": "Please use one of the following: import, stops, counts.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
