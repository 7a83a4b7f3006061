package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gncx-dev/gncx/internal/model"
)

type stubReader struct {
	format string
	magic  string
}

func (s stubReader) Format() string { return s.format }

func (s stubReader) Detect(header []byte) bool {
	return len(header) >= len(s.magic) && string(header[:len(s.magic)]) == s.magic
}

func (s stubReader) ReadFile(_ context.Context, path string) (model.Records, error) {
	return model.Records{Accounts: []model.AccountRecord{{ID: s.format, Name: filepath.Base(path)}}}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(stubReader{format: "alpha", magic: "AA"})
	r.Register(stubReader{format: "beta", magic: "BB"})

	assert.Equal(t, []string{"alpha", "beta"}, r.Formats())
	assert.NotNil(t, r.Get("ALPHA"))
	assert.Nil(t, r.Get("gamma"))
	assert.Panics(t, func() { r.Register(stubReader{format: "Alpha"}) })

	dir := t.TempDir()
	b := writeFile(t, dir, "b.book", "BB rest")
	rd, err := r.Detect(b)
	require.NoError(t, err)
	assert.Equal(t, "beta", rd.Format())

	recs, err := r.ReadFile(context.Background(), b, "")
	require.NoError(t, err)
	assert.Equal(t, "beta", recs.Accounts[0].ID)

	recs, err = r.ReadFile(context.Background(), b, "alpha")
	require.NoError(t, err, "explicit format skips detection")
	assert.Equal(t, "alpha", recs.Accounts[0].ID)

	unknown := writeFile(t, dir, "c.book", "??")
	_, err = r.ReadFile(context.Background(), unknown, "auto")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = r.ReadFile(context.Background(), b, "gamma")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	empty := writeFile(t, dir, "empty.book", "")
	_, err = r.Detect(empty)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDefaultRegistry_DetectsSample(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"xml", "sqlite"}, r.Formats())

	rd, err := r.Detect("../../testdata/sample.gnucash")
	require.NoError(t, err)
	assert.Equal(t, "xml", rd.Format())
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "books.gnucash", "x")
	writeFile(t, dir, "books.gnucash.20240101120000.gnucash", "x")
	writeFile(t, dir, "books.gnucash.LCK", "x")
	writeFile(t, dir, "books.gnucash.20240101120000.log", "x")
	writeFile(t, dir, "archive.xml.gz", "x")
	writeFile(t, dir, "shop.sqlite", "x")
	writeFile(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.gnucash"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"archive.xml.gz", "books.gnucash", "shop.sqlite"}, names)
	assert.Equal(t, int64(1), files[0].Size)

	files, err = Scan(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Nil(t, files)
}
