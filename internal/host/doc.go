// Package host serves the upload page and forwards posted forms.
//
// The page carries the four widget elements under the ids from dropzone.json
// and the config itself as a JSON script element, which the wasm build reads
// at boot. Static assets (wasm_exec.js, dropzone.wasm) are served from the
// configured static directory.
//
// The form the widget posts is not handled here. When an upstream is
// configured the request is reverse-proxied to it; otherwise the host answers
// 502 with a plain text body, which the widget shows as a rejection.
//
//	srv := host.New(cfg, host.WithLogger(logger))
//	err := srv.ListenAndServe(ctx)
package host
