package values

import (
	"bufio"
	"os"

	"github.com/google/uuid"
)

// FileReader is the opaque OS resource backing KindFileReader.
type FileReader struct {
	id     uuid.UUID
	File   *os.File
	Reader *bufio.Reader
}

// NewFileReader wraps an opened file for line-oriented reading.
func NewFileReader(f *os.File) *Value {
	return &Value{Kind: KindFileReader, Data: &FileReader{id: newHandleID(), File: f, Reader: bufio.NewReader(f)}}
}

func (r *FileReader) ID() uuid.UUID { return r.id }

// FileWriter is the opaque OS resource backing KindFileWriter.
type FileWriter struct {
	id     uuid.UUID
	File   *os.File
	Writer *bufio.Writer
}

// NewFileWriter wraps an opened file for buffered writing.
func NewFileWriter(f *os.File) *Value {
	return &Value{Kind: KindFileWriter, Data: &FileWriter{id: newHandleID(), File: f, Writer: bufio.NewWriter(f)}}
}

func (w *FileWriter) ID() uuid.UUID { return w.id }

// DirectoryHandle is the opaque OS resource backing KindDirectoryHandle:
// a directory whose entries are read lazily, one per SHIFT.
type DirectoryHandle struct {
	id      uuid.UUID
	Path    string
	entries []os.DirEntry
	index   int
	loaded  bool
}

// NewDirectoryHandle wraps a directory path for lazy entry iteration.
func NewDirectoryHandle(path string) *Value {
	return &Value{Kind: KindDirectoryHandle, Data: &DirectoryHandle{id: newHandleID(), Path: path}}
}

func (d *DirectoryHandle) ID() uuid.UUID { return d.id }

// Next returns the next directory entry name, lazily listing the
// directory on first use, or ok=false at exhaustion.
func (d *DirectoryHandle) Next() (string, error, bool) {
	if !d.loaded {
		entries, err := os.ReadDir(d.Path)
		if err != nil {
			return "", err, false
		}
		d.entries = entries
		d.loaded = true
	}
	if d.index >= len(d.entries) {
		return "", nil, false
	}
	name := d.entries[d.index].Name()
	d.index++
	return name, nil, true
}
