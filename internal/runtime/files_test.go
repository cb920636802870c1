package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesReadStdin(t *testing.T) {
	f := NewFiles(strings.NewReader("hello"))
	defer f.CloseAll()

	buf := make([]byte, 16)
	if n := f.Read(0, buf); n != 5 || string(buf[:n]) != "hello" {
		t.Errorf("Read(0) = %d %q, want 5 \"hello\"", n, buf[:max(n, 0)])
	}
	if n := f.Read(0, buf); n != 0 {
		t.Errorf("Read at EOF = %d, want 0", n)
	}
	if n := f.Read(1, buf); n != -1 {
		t.Errorf("Read(stdout) = %d, want -1", n)
	}
}

func TestFilesOpenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("abcdef"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f := NewFiles(strings.NewReader(""))
	defer f.CloseAll()

	fd := f.Open(path, O_RDONLY)
	if fd != 3 {
		t.Fatalf("Open = %d, want 3", fd)
	}
	buf := make([]byte, 4)
	if n := f.Read(fd, buf); n != 4 || string(buf) != "abcd" {
		t.Errorf("first Read = %d %q", n, buf)
	}
	if n := f.Read(fd, buf); n != 2 || string(buf[:2]) != "ef" {
		t.Errorf("second Read = %d %q", n, buf[:2])
	}
	if n := f.Read(fd, buf); n != 0 {
		t.Errorf("Read at EOF = %d, want 0", n)
	}

	if rc := f.Close(fd); rc != 0 {
		t.Errorf("Close = %d, want 0", rc)
	}
	if rc := f.Close(fd); rc != -1 {
		t.Errorf("second Close = %d, want -1", rc)
	}
	if n := f.Read(fd, buf); n != -1 {
		t.Errorf("Read after Close = %d, want -1", n)
	}
}

func TestFilesLowestDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f := NewFiles(strings.NewReader(""))
	defer f.CloseAll()

	a := f.Open(path, O_RDONLY)
	b := f.Open(path, O_RDONLY)
	if a != 3 || b != 4 {
		t.Fatalf("descriptors = %d, %d, want 3, 4", a, b)
	}
	f.Close(a)
	if c := f.Open(path, O_RDONLY); c != 3 {
		t.Errorf("reopened descriptor = %d, want 3", c)
	}
}

func TestFilesOpenFlags(t *testing.T) {
	dir := t.TempDir()
	f := NewFiles(strings.NewReader(""))
	defer f.CloseAll()

	if fd := f.Open(filepath.Join(dir, "missing"), O_RDONLY); fd != -1 {
		t.Errorf("Open(missing) = %d, want -1", fd)
	}

	created := filepath.Join(dir, "new")
	fd := f.Open(created, O_WRONLY|O_CREAT|O_TRUNC)
	if fd < 3 {
		t.Fatalf("Open(O_CREAT) = %d", fd)
	}
	if _, err := os.Stat(created); err != nil {
		t.Errorf("file not created: %v", err)
	}
	if n := f.Read(fd, make([]byte, 1)); n != -1 {
		t.Errorf("Read on write-only descriptor = %d, want -1", n)
	}
}

func TestFilesCloseStd(t *testing.T) {
	f := NewFiles(strings.NewReader("x"))
	if rc := f.Close(0); rc != 0 {
		t.Errorf("Close(0) = %d, want 0", rc)
	}
	if n := f.Read(0, make([]byte, 1)); n != -1 {
		t.Errorf("Read after Close(0) = %d, want -1", n)
	}
	if rc := f.Close(42); rc != -1 {
		t.Errorf("Close(42) = %d, want -1", rc)
	}
}
