// Package dropzone implements the drag-and-drop upload widget.
//
// A Widget is bound to four element handles: a drop zone, a file input, a
// progress indicator and a status list. It turns a drop or a file picker
// selection into exactly one multipart POST and reflects the outcome in the
// status list. On success the page is reloaded after a delay so the
// server-rendered result replaces the widget.
//
// # Usage
//
//	w := dropzone.New(dropzone.Elements{
//	    DropZone: zone,
//	    Input:    input,
//	    Progress: bar,
//	    Status:   list,
//	},
//	    dropzone.WithBaseURL("http://localhost:5000"),
//	    dropzone.WithReloader(reloader),
//	)
//	w.Bind()
//
// Bind registers the drag listeners (each of dragenter, dragover, dragleave
// and drop has its default action prevented and stops propagating), the drop
// handler, click-to-browse on the drop zone and the input's change handler.
//
// # Submissions
//
// Event handlers return immediately and run Submit on a goroutine. Submit is
// single flight: while one request is in flight further submissions are
// dropped with OutcomeBusy. Every failure ends in a status entry; Submit
// never returns an error to the event source.
//
//	res := w.Submit(ctx, files)
//	switch res.Outcome {
//	case dropzone.OutcomeSuccess:      // "Archivos procesados correctamente.", reload scheduled
//	case dropzone.OutcomeRejected:     // "Error: <server text>"
//	case dropzone.OutcomeNetworkError: // "Error de red"
//	}
//
// # Rendering
//
// The status list is structured state, a slice of Entry values. Front-ends
// that need markup use RenderHTML, which escapes filenames and server text.
package dropzone
