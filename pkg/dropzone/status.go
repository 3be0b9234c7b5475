package dropzone

import (
	"fmt"
	"html/template"
	"strings"
)

// Kind classifies a status entry.
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Entry is one line of the status list.
type Entry struct {
	Kind Kind
	Text string
}

// Messages are the texts the widget shows.
type Messages struct {
	// Loading is a format with one %s verb for the file name.
	Loading string

	// Success replaces the list after an ok response.
	Success string

	// Rejected is a format with one %s verb for the server's response text.
	Rejected string

	// Network replaces the list when the request never completed.
	Network string
}

// DefaultMessages returns the stock texts.
func DefaultMessages() Messages {
	return Messages{
		Loading:  "%s - Cargando...",
		Success:  "Archivos procesados correctamente.",
		Rejected: "Error: %s",
		Network:  "Error de red",
	}
}

func (m Messages) loading(name string) Entry {
	return Entry{Kind: KindLoading, Text: fmt.Sprintf(m.Loading, name)}
}

func (m Messages) success() Entry {
	return Entry{Kind: KindSuccess, Text: m.Success}
}

func (m Messages) rejected(text string) Entry {
	return Entry{Kind: KindError, Text: fmt.Sprintf(m.Rejected, text)}
}

func (m Messages) network() Entry {
	return Entry{Kind: KindError, Text: m.Network}
}

var statusTemplate = template.Must(template.New("status").Parse(
	`{{range .}}{{if eq .Kind "success"}}<p style="color: green;">{{.Text}}</p>` +
		`{{else if eq .Kind "error"}}<p style="color: red;">{{.Text}}</p>` +
		`{{else}}<p>{{.Text}}</p>{{end}}{{end}}`))

// RenderHTML renders entries as one paragraph each. Text is escaped.
func RenderHTML(entries []Entry) template.HTML {
	var b strings.Builder
	if err := statusTemplate.Execute(&b, entries); err != nil {
		return ""
	}
	return template.HTML(b.String())
}
