package workspace

import (
	"io/fs"
	"sync"
	"testing/fstest"
	"time"
)

// MemFS is an in-memory FileSystem. It records how often each file was read
// and written, and can be told to fail specific operations.
type MemFS struct {
	mu       sync.Mutex
	files    fstest.MapFS
	reads    map[string]int
	writes   map[string]int
	readErr  map[string]error
	writeErr map[string]error
}

var _ FileSystem = (*MemFS)(nil)

// NewMemFS returns a filesystem holding files, keyed by slash-separated path.
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{
		files:    make(fstest.MapFS, len(files)),
		reads:    make(map[string]int),
		writes:   make(map[string]int),
		readErr:  make(map[string]error),
		writeErr: make(map[string]error),
	}

	for name, content := range files {
		m.files[name] = &fstest.MapFile{Data: []byte(content), Mode: 0o644, ModTime: time.Unix(0, 0)}
	}

	return m
}

// Open implements fs.FS.
func (m *MemFS) Open(name string) (fs.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.files.Open(name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// ReadDir implements fs.ReadDirFS.
func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.files.ReadDir(name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// ReadFile returns the content of name.
func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads[name]++

	if err := m.readErr[name]; err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}

	return m.files.ReadFile(name) //nolint:wrapcheck // fs.PathError already carries the path.
}

// WriteFile replaces the content of name.
func (m *MemFS) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes[name]++

	if err := m.writeErr[name]; err != nil {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}

	file, ok := m.files[name]
	if !ok {
		file = &fstest.MapFile{Mode: 0o644}
		m.files[name] = file
	}

	file.Data = append([]byte(nil), data...)

	return nil
}

// FailRead makes subsequent reads of name fail with err.
func (m *MemFS) FailRead(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.readErr[name] = err
}

// FailWrite makes subsequent writes of name fail with err.
func (m *MemFS) FailWrite(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writeErr[name] = err
}

// Content returns the current content of name, or "" if it does not exist.
func (m *MemFS) Content(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	file, ok := m.files[name]
	if !ok {
		return ""
	}

	return string(file.Data)
}

// Reads returns how many times name was read.
func (m *MemFS) Reads(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.reads[name]
}

// Writes returns how many times name was written.
func (m *MemFS) Writes(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.writes[name]
}

// TotalWrites returns the number of writes across all files.
func (m *MemFS) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.writes {
		total += n
	}

	return total
}
