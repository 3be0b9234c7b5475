// Package dom binds the dropzone widget to browser elements through
// syscall/js. It is only built for GOOS=js GOARCH=wasm.
//
//	el, err := dom.Lookup(cfg.Elements)
//	if err != nil {
//	    panic(err)
//	}
//	w := dropzone.New(el, dropzone.WithBaseURL(dom.LocationHref()), dropzone.WithReloader(dom.Location{}))
//	w.Bind()
//	select {}
package dom
