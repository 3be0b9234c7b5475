//go:build js && wasm

// Command dropzone-wasm is the browser build of the upload widget. The host
// server injects dropzone.json into the page as a JSON script element; the
// widget binds to the elements it names and waits for events.
package main

import (
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/vango-dev/dropzone/internal/config"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/dropzone/dom"
)

// configElementID is the id of the script element holding the config JSON.
const configElementID = "dropzone-config"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	cfg := config.New()
	if raw := dom.ConfigJSON(configElementID); raw != "" {
		parsed, err := config.Parse([]byte(raw))
		if err != nil {
			logger.Error("invalid injected config, using defaults", "error", err)
		} else {
			cfg = parsed
		}
	}

	el, err := dom.Lookup(cfg.Elements)
	if err != nil {
		logger.Error("widget elements missing", "error", err)
		return
	}

	w := dropzone.New(el,
		dropzone.WithBaseURL(dom.LocationHref()),
		dropzone.WithEndpoint(cfg.Endpoint),
		dropzone.WithFieldName(cfg.FieldName),
		dropzone.WithReloadDelay(cfg.ReloadDuration()),
		dropzone.WithReloader(dom.Location{}),
		dropzone.WithLogger(logger),
	)
	w.Bind()

	logger.Info("dropzone ready", "dropZone", cfg.Elements.DropZone)
	select {}
}
