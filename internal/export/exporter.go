// Package export writes the displayed log text to a uniquely named file.
package export

import (
	"fmt"
)

const (
	FilenamePrefix = "export_"
	FilenameExt    = ".txt"

	ConfirmationTitle = "Exported"
)

type FilenameGenerator interface {
	Generate(prefix, ext string) string
}

type Writer interface {
	Write(filename, content string) (string, error)
}

type Record struct {
	Filename string
	Content  string
}

// ConfirmationMessage is shown only after the file was written.
func (r Record) ConfirmationMessage() string {
	return "Exported to file " + r.Filename + "."
}

type Exporter struct {
	names  FilenameGenerator
	writer Writer
}

func NewExporter(names FilenameGenerator, writer Writer) *Exporter {
	if names == nil {
		panic("export.NewExporter: filename generator must not be nil")
	}
	if writer == nil {
		panic("export.NewExporter: writer must not be nil")
	}
	return &Exporter{names: names, writer: writer}
}

// Export writes text to a fresh file and returns the name it landed under.
func (e *Exporter) Export(text string) (Record, error) {
	name := e.names.Generate(FilenamePrefix, FilenameExt)
	written, err := e.writer.Write(name, text)
	if err != nil {
		return Record{}, fmt.Errorf("write export %s: %w", name, err)
	}
	return Record{Filename: written, Content: text}, nil
}
