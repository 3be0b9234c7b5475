// Package dztest provides test doubles for the dropzone widget elements.
//
// The doubles record everything the widget does to them so tests can assert
// on the final element state:
//
//	el := dztest.NewElements()
//	sched := &dztest.Scheduler{}
//	w := dropzone.New(el.Elements(), dropzone.WithScheduler(sched))
//	w.Bind()
//
//	el.Input.Select(upload.NewFile("a.txt", "text/plain", []byte("a")))
//	w.Wait()
//
//	dztest.ExpectHTML(t, el.Status, `<p style="color: green;">Archivos procesados correctamente.</p>`)
//	if !el.Progress.Hidden() {
//	    t.Error("progress should end hidden")
//	}
package dztest
