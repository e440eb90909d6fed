package payslip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDocumentStore writes documents under dir and serves them from
// baseURL.
type LocalDocumentStore struct {
	dir     string
	baseURL string
}

func NewLocalDocumentStore(dir, baseURL string) *LocalDocumentStore {
	return &LocalDocumentStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalDocumentStore) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = filepath.Base(name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create document dir: %w", err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}

	if s.baseURL == "" {
		return path, nil
	}
	return s.baseURL + "/" + name, nil
}
