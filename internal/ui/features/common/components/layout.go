package components

import (
	"context"
	"net/http"

	"github.com/a-h/templ"

	"github.com/jeebeez/another-signal/internal/ui/resources"
)

// DatastarScript is the client runtime that applies SSE patches and signals.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// AppName is shown in the document title.
const AppName = "Another Signal"

type liveReloadKey struct{}

// LiveReload marks requests so Layout connects the page to the /reload stream.
func LiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), liveReloadKey{}, true)))
	})
}

func liveReload(ctx context.Context) bool {
	on, _ := ctx.Value(liveReloadKey{}).(bool)
	return on
}

// Page describes one full document.
type Page struct {
	Title string
	// Signals is the initial datastar signal object as JSON.
	Signals string
	// Init is the datastar expression run when the page loads.
	Init  string
	Flash []string
	Body  templ.Component
}

// Layout renders the document shell around page.Body.
func Layout(page Page) templ.Component {
	return Component(func(h *HTML) {
		h.Raw("<!doctype html>")
		h.Open("html", "lang", "en")
		h.Open("head")
		h.Raw(`<meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Element("title", page.Title+" - "+AppName)
		h.Open("link", "rel", "stylesheet", "href", resources.StaticPath("app.css"))
		h.Open("script", "type", "module", "src", DatastarScript)
		h.Close("script")
		h.Open("script", "defer", "", "src", resources.StaticPath("app.js"))
		h.Close("script")
		h.Close("head")

		attrs := []string{"class", "app"}
		if page.Signals != "" {
			attrs = append(attrs, "data-signals", page.Signals)
		}
		if page.Init != "" {
			attrs = append(attrs, "data-init", page.Init)
		}
		h.Open("body", attrs...)
		h.Open("main", "class", "container")
		h.Render(page.Body)
		h.Close("main")

		if len(page.Flash) > 0 {
			h.Render(Toast(page.Flash[0], ToastError))
		} else {
			h.Render(EmptyToast())
		}
		if liveReload(h.ctx) {
			h.Open("div", "id", "live-reload", "hidden", "", "data-init", "@get('/reload')")
			h.Close("div")
		}
		h.Close("body")
		h.Close("html")
	})
}
