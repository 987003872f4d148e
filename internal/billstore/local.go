package billstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Local keeps bills as files in one directory
type Local struct {
	dir string
}

// NewLocal creates dir if needed
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bill dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("invalid bill name %q: %w", name, fs.ErrInvalid)
	}
	return filepath.Join(l.dir, name), nil
}

// Save writes the bill through a temp file so readers never see a partial PDF
func (l *Local) Save(ctx context.Context, name string, content []byte) error {
	p, err := l.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(l.dir, ".bill-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// FindByJobID returns the first bill, by name, containing jobID
func (l *Local) FindByJobID(ctx context.Context, jobID string) (string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		if strings.Contains(n, jobID) {
			return n, nil
		}
	}
	return "", fmt.Errorf("bill for job %s: %w", jobID, fs.ErrNotExist)
}

func (l *Local) Open(ctx context.Context, name string) ([]byte, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}
