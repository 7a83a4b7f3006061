// Package source locates book files and picks the reader for their storage
// format.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gncx-dev/gncx/internal/model"
	"github.com/gncx-dev/gncx/internal/sqlfile"
	"github.com/gncx-dev/gncx/internal/xmlfile"
)

// ErrUnknownFormat is returned when no reader recognizes a file.
var ErrUnknownFormat = errors.New("unknown book format")

// Reader loads the raw records of one storage format.
type Reader interface {
	Format() string
	Detect(header []byte) bool
	ReadFile(ctx context.Context, path string) (model.Records, error)
}

// Registry holds named readers.
type Registry struct {
	readers map[string]Reader
	order   []string
}

// FileInfo describes a book file found by Scan.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
	r.order = append(r.order, key)
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// Formats lists the registered formats in registration order.
func (r *Registry) Formats() []string {
	return append([]string(nil), r.order...)
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(xmlfile.Reader{})
	r.Register(sqlfile.Reader{})
	return r
}

const headerSize = 512

// Detect returns the first registered reader that recognizes the file header.
func (r *Registry) Detect(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	header = header[:n]
	for _, key := range r.order {
		if rd := r.readers[key]; rd.Detect(header) {
			return rd, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// ReadFile loads path with the reader for format, detecting it when format
// is empty or "auto".
func (r *Registry) ReadFile(ctx context.Context, path, format string) (model.Records, error) {
	var rd Reader
	if format == "" || strings.EqualFold(format, "auto") {
		var err error
		if rd, err = r.Detect(path); err != nil {
			return model.Records{}, err
		}
	} else if rd = r.Get(format); rd == nil {
		return model.Records{}, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
	return rd.ReadFile(ctx, path)
}

var bookExtensions = []string{".gnucash", ".xml", ".gz", ".sqlite", ".sqlite3"}

// backupName matches the timestamped copies GnuCash keeps next to a book.
var backupName = regexp.MustCompile(`\.\d{14}\.gnucash$`)

// Scan returns the book files in dir, skipping backups, lock files and logs.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading book dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !isBookName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func isBookName(name string) bool {
	lower := strings.ToLower(name)
	if backupName.MatchString(lower) {
		return false
	}
	for _, ext := range bookExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
