package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNamerGenerate(t *testing.T) {
	clock := &FixedClock{N: time.Date(2026, 10, 17, 9, 5, 7, 42_000_000, time.UTC)}
	n := NewNamer(clock)
	require.Equal(t, "export_20261017090507042.txt", n.Generate(FilenamePrefix, FilenameExt))
}

func TestExportTwiceProducesDistinctFilesWithSameContent(t *testing.T) {
	dir := t.TempDir()
	clock := &FixedClock{N: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	e := NewExporter(NewNamer(clock), DirWriter{Dir: dir})
	text := "2026/10/17 09:00:00 Start\n2026/10/17 09:00:03 Location: 35.0,139.0"

	first, err := e.Export(text)
	require.NoError(t, err)
	second, err := e.Export(text)
	require.NoError(t, err)

	require.NotEqual(t, first.Filename, second.Filename)
	require.Equal(t, "export_20261017090000000.txt", first.Filename)
	require.Equal(t, "export_20261017090000000-1.txt", second.Filename)
	for _, rec := range []Record{first, second} {
		data, err := os.ReadFile(filepath.Join(dir, rec.Filename))
		require.NoError(t, err)
		require.Equal(t, text, string(data))
		require.Equal(t, text, rec.Content)
	}
}

func TestExportAdvancingClock(t *testing.T) {
	dir := t.TempDir()
	clock := &FixedClock{N: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)}
	e := NewExporter(NewNamer(clock), DirWriter{Dir: dir})

	first, err := e.Export("a")
	require.NoError(t, err)
	clock.N = clock.N.Add(time.Millisecond)
	second, err := e.Export("a")
	require.NoError(t, err)
	require.Equal(t, "export_20261017090000001.txt", second.Filename)
	require.NotEqual(t, first.Filename, second.Filename)
}

func TestConfirmationMessage(t *testing.T) {
	rec := Record{Filename: "export_20261017090000000.txt"}
	require.Equal(t, "Exported to file export_20261017090000000.txt.", rec.ConfirmationMessage())
}

type failingWriter struct{ err error }

func (w failingWriter) Write(string, string) (string, error) { return "", w.err }

func TestExportWriteFailureIsReturned(t *testing.T) {
	diskFull := errors.New("no space left on device")
	e := NewExporter(NewNamer(nil), failingWriter{err: diskFull})
	rec, err := e.Export("x")
	require.ErrorIs(t, err, diskFull)
	require.Equal(t, Record{}, rec)
}

func TestDirWriterRejectsPaths(t *testing.T) {
	w := DirWriter{Dir: t.TempDir()}
	_, err := w.Write("../escape.txt", "x")
	require.Error(t, err)
	_, err = w.Write("", "x")
	require.Error(t, err)
}

func TestDirWriterUnwritableDir(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	_, err := DirWriter{Dir: filepath.Join(blocker, "exports")}.Write("export_1.txt", "x")
	require.Error(t, err)
}
