package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cardledger/cardledger/internal/model"
)

// ErrUnknownFormat is returned when no loader is registered for a file.
var ErrUnknownFormat = errors.New("unknown source format")

// Loader converts one bank export into canonical transactions.
type Loader interface {
	Load(t *Table, source string) (Batch, error)
	Format() string
}

// Batch is the output of loading one file.
type Batch struct {
	Records []model.Transaction
	Skipped []SkippedRow
}

// SkippedRow records a raw row that produced no transaction.
type SkippedRow struct {
	Row    int // 1-based source row, header is row 1
	Reason string
}

// UndatedCount returns the number of records whose date did not parse.
func (b Batch) UndatedCount() int {
	n := 0
	for _, r := range b.Records {
		if !r.HasDate() {
			n++
		}
	}
	return n
}

func (b *Batch) skip(row int, format string, args ...any) {
	b.Skipped = append(b.Skipped, SkippedRow{Row: row, Reason: fmt.Sprintf(format, args...)})
}

// Registry holds named loaders.
type Registry struct {
	loaders map[string]Loader
}

// SourcePattern maps file names matching a glob to a loader format.
type SourcePattern struct {
	Pattern string `yaml:"pattern"`
	Format  string `yaml:"format"`
}

// DefaultPatterns are the file-name conventions of the supported exports.
var DefaultPatterns = []SourcePattern{
	{Pattern: "CapitalOne*", Format: "capitalone"},
	{Pattern: "Discover*", Format: "discover"},
	{Pattern: "Chase_Extracted*", Format: "extracted"},
}

// FileInfo describes a bank export in the input directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty loader registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Register adds a loader. Panics on duplicate format.
func (r *Registry) Register(l Loader) {
	key := strings.ToLower(l.Format())
	if _, ok := r.loaders[key]; ok {
		panic("duplicate loader format: " + key)
	}
	r.loaders[key] = l
}

// Get returns the loader for format, or nil.
func (r *Registry) Get(format string) Loader {
	return r.loaders[strings.ToLower(format)]
}

// Formats returns the registered format names.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.loaders))
	for k := range r.loaders {
		out = append(out, k)
	}
	return out
}

// Match returns the loader for the first pattern matching fileName.
func (r *Registry) Match(fileName string, patterns []SourcePattern) (Loader, error) {
	base := filepath.Base(fileName)
	for _, p := range patterns {
		ok, err := filepath.Match(strings.ToLower(p.Pattern), strings.ToLower(base))
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", p.Pattern, err)
		}
		if !ok {
			continue
		}
		l := r.Get(p.Format)
		if l == nil {
			return nil, fmt.Errorf("%w: %q (pattern %q)", ErrUnknownFormat, p.Format, p.Pattern)
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w: no pattern matches %s", ErrUnknownFormat, base)
}

// DefaultRegistry returns a registry with all built-in loaders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ExtractedLoader{})
	r.Register(&CapitalOneLoader{})
	r.Register(&DiscoverLoader{})
	return r
}

// Scan returns the .csv and .xlsx files in dir, sorted by name.
// A missing directory yields no files.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".csv", ".xlsx":
		default:
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
	return files, nil
}
