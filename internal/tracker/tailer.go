package tracker

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// Tailer reads complete lines appended to a file since the last call.
type Tailer struct {
	Path   string
	Offset int64
	// partial holds a trailing line that has no newline yet.
	partial []byte
}

// Prime moves the offset to the current end of file so only new lines are
// read.
func (t *Tailer) Prime() error {
	info, err := os.Stat(t.Path)
	if err != nil {
		return err
	}
	t.Offset = info.Size()
	t.partial = nil
	return nil
}

func (t *Tailer) ReadNewLines() ([]string, error) {
	file, err := os.Open(t.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < t.Offset {
		// Truncated in place; start over.
		t.Offset = 0
		t.partial = nil
	}
	if _, err := file.Seek(t.Offset, io.SeekStart); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	n, err := io.Copy(buf, file)
	if err != nil {
		return nil, err
	}
	t.Offset += n

	raw := append(t.partial, buf.Bytes()...)
	t.partial = nil
	last := bytes.LastIndexByte(raw, '\n')
	if last < 0 {
		t.partial = raw
		return nil, nil
	}
	if last+1 < len(raw) {
		t.partial = append([]byte(nil), raw[last+1:]...)
	}

	var lines []string
	for _, line := range strings.Split(string(raw[:last]), "\n") {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}
	return lines, nil
}
