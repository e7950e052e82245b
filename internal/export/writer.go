package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const maxNameAttempts = 1000

// DirWriter creates export files inside Dir and never overwrites one.
type DirWriter struct {
	Dir string
}

// Write stores content under filename, or under filename with a numeric
// suffix when that name is taken, and returns the name actually used.
func (w DirWriter) Write(filename, content string) (string, error) {
	if strings.ContainsAny(filename, `/\`) || filename == "" {
		return "", fmt.Errorf("invalid export filename %q", filename)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := filename
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d%s", base, attempt, ext)
		}
		err := writeExclusive(filepath.Join(w.Dir, name), content)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free export filename for %q", filename)
}

func writeExclusive(path, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
