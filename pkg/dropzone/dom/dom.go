//go:build js && wasm

package dom

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"syscall/js"

	"github.com/vango-dev/dropzone/internal/config"
	"github.com/vango-dev/dropzone/pkg/dropzone"
	"github.com/vango-dev/dropzone/pkg/upload"
)

// Element wraps a DOM element.
type Element struct {
	v js.Value

	mu    sync.Mutex
	funcs []js.Func
}

// ByID looks up an element by id.
func ByID(id string) (*Element, error) {
	v := js.Global().Get("document").Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, fmt.Errorf("dom: no element with id %q", id)
	}
	return &Element{v: v}, nil
}

// AddEventListener implements dropzone.EventTarget. fn runs synchronously in
// the browser callback, so PreventDefault takes effect.
func (e *Element) AddEventListener(typ string, fn func(dropzone.Event)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		fn(wrapEvent(args[0]))
		return nil
	})

	e.mu.Lock()
	e.funcs = append(e.funcs, cb)
	e.mu.Unlock()

	e.v.Call("addEventListener", typ, cb, false)
}

// Release frees the registered callbacks.
func (e *Element) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.funcs {
		f.Release()
	}
	e.funcs = nil
}

// Click implements dropzone.FileInput.
func (e *Element) Click() {
	e.v.Call("click")
}

// Files implements dropzone.FileInput.
func (e *Element) Files() []*upload.File {
	return fileList(e.v.Get("files"))
}

// SetValue implements dropzone.Progress.
func (e *Element) SetValue(v float64) {
	e.v.Set("value", v)
}

// SetHidden implements dropzone.Progress.
func (e *Element) SetHidden(hidden bool) {
	if hidden {
		e.v.Call("setAttribute", "hidden", true)
		return
	}
	e.v.Call("removeAttribute", "hidden")
}

// Render implements dropzone.StatusList.
func (e *Element) Render(entries []dropzone.Entry) {
	e.v.Set("innerHTML", string(dropzone.RenderHTML(entries)))
}

// Lookup resolves the four widget elements by their configured ids.
func Lookup(ids config.ElementsConfig) (dropzone.Elements, error) {
	var el dropzone.Elements

	zone, err := ByID(ids.DropZone)
	if err != nil {
		return el, err
	}
	input, err := ByID(ids.Input)
	if err != nil {
		return el, err
	}
	progress, err := ByID(ids.Progress)
	if err != nil {
		return el, err
	}
	status, err := ByID(ids.Status)
	if err != nil {
		return el, err
	}

	return dropzone.Elements{
		DropZone: zone,
		Input:    input,
		Progress: progress,
		Status:   status,
	}, nil
}

// event wraps a DOM event.
type event struct {
	v js.Value
}

func wrapEvent(v js.Value) dropzone.Event {
	ev := &event{v: v}
	if dt := v.Get("dataTransfer"); dt.Truthy() {
		return &dropEvent{event: ev, dt: dt}
	}
	return ev
}

func (e *event) Type() string { return e.v.Get("type").String() }
func (e *event) PreventDefault() { e.v.Call("preventDefault") }
func (e *event) StopPropagation() { e.v.Call("stopPropagation") }

// dropEvent is a drag event with a data transfer.
type dropEvent struct {
	*event
	dt js.Value
}

func (e *dropEvent) Files() []*upload.File {
	return fileList(e.dt.Get("files"))
}

// fileList converts a FileList into files whose content is read lazily.
func fileList(list js.Value) []*upload.File {
	if !list.Truthy() {
		return nil
	}
	n := list.Get("length").Int()
	files := make([]*upload.File, 0, n)
	for i := 0; i < n; i++ {
		f := list.Call("item", i)
		files = append(files, &upload.File{
			Filename:    f.Get("name").String(),
			ContentType: f.Get("type").String(),
			Size:        int64(f.Get("size").Int()),
			Reader:      &blobReader{blob: f},
		})
	}
	return files
}

// blobReader reads a Blob's bytes on first Read. It must not be read from
// the browser's callback goroutine, since it waits on a promise.
type blobReader struct {
	blob js.Value
	r    io.Reader
	err  error
}

func (b *blobReader) Read(p []byte) (int, error) {
	if b.r == nil && b.err == nil {
		var buf js.Value
		buf, b.err = await(b.blob.Call("arrayBuffer"))
		if b.err == nil {
			arr := js.Global().Get("Uint8Array").New(buf)
			data := make([]byte, arr.Get("length").Int())
			js.CopyBytesToGo(data, arr)
			b.r = bytes.NewReader(data)
		}
	}
	if b.err != nil {
		return 0, b.err
	}
	return b.r.Read(p)
}

func (b *blobReader) Close() error { return nil }

// await blocks until promise settles.
func await(promise js.Value) (js.Value, error) {
	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{v: args[0]}
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		ch <- result{err: fmt.Errorf("dom: %s", args[0].Call("toString").String())}
		return nil
	})
	defer onResolve.Release()
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	res := <-ch
	return res.v, res.err
}

// Location reloads the current page.
type Location struct{}

// Reload implements dropzone.Reloader.
func (Location) Reload() {
	js.Global().Get("location").Call("reload")
}

// LocationHref returns the current page URL.
func LocationHref() string {
	return js.Global().Get("location").Get("href").String()
}

// ConfigJSON returns the text of the element holding the injected config,
// or "" when the page has none.
func ConfigJSON(id string) string {
	el, err := ByID(id)
	if err != nil {
		return ""
	}
	return el.v.Get("textContent").String()
}
