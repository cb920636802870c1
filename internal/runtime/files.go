package runtime

import (
	"errors"
	"io"
	"os"
	"sync"
)

// Open flags, with the values C programs pass to open().
const (
	O_RDONLY = 0
	O_WRONLY = 1
	O_RDWR   = 2
	O_CREAT  = 0o100
	O_TRUNC  = 0o1000
	O_APPEND = 0o2000
)

// Files is the descriptor table behind the open, read and close syscalls.
// Descriptors 0, 1 and 2 are the configured standard streams; files opened
// by the program take the lowest free descriptor from 3 up.
// All methods report failure to the guest as -1, never as a Go error.
type Files struct {
	mu    sync.Mutex
	table map[int64]*openFile
}

// openFile is one descriptor. Host files own their *os.File; standard
// streams are borrowed and never closed.
type openFile struct {
	r    io.Reader
	file *os.File
}

// NewFiles creates a descriptor table whose descriptor 0 reads stdin.
// Descriptors 1 and 2 exist so they can be closed but cannot be read.
func NewFiles(stdin io.Reader) *Files {
	return &Files{
		table: map[int64]*openFile{
			0: {r: stdin},
			1: {},
			2: {},
		},
	}
}

// Open opens path with C open flags and returns the new descriptor, or -1.
func (f *Files) Open(path string, flags int64) int64 {
	var flag int
	switch flags & 3 {
	case O_WRONLY:
		flag = os.O_WRONLY
	case O_RDWR:
		flag = os.O_RDWR
	default:
		flag = os.O_RDONLY
	}
	if flags&O_CREAT != 0 {
		flag |= os.O_CREATE
	}
	if flags&O_TRUNC != 0 {
		flag |= os.O_TRUNC
	}
	if flags&O_APPEND != 0 {
		flag |= os.O_APPEND
	}

	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return -1
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fd := int64(3)
	for f.table[fd] != nil {
		fd++
	}
	of := &openFile{file: file}
	if flags&3 != O_WRONLY {
		of.r = file
	}
	f.table[fd] = of
	return fd
}

// Read performs a single read into buf and returns the byte count, 0 at end
// of input, or -1.
func (f *Files) Read(fd int64, buf []byte) int64 {
	f.mu.Lock()
	of := f.table[fd]
	f.mu.Unlock()

	if of == nil || of.r == nil {
		return -1
	}
	if len(buf) == 0 {
		return 0
	}
	n, err := of.r.Read(buf)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		return -1
	}
	return int64(n)
}

// Close releases fd and returns 0, or -1 if fd is not open.
func (f *Files) Close(fd int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	of, ok := f.table[fd]
	if !ok {
		return -1
	}
	delete(f.table, fd)
	if of.file != nil {
		if err := of.file.Close(); err != nil {
			return -1
		}
	}
	return 0
}

// CloseAll closes every host file still open.
func (f *Files) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for fd, of := range f.table {
		if of.file != nil {
			of.file.Close()
		}
		delete(f.table, fd)
	}
}
