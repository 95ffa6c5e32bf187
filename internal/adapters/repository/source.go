package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/okian/festboard/internal/domain/model"
)

// FileSource reads a snapshot from a YAML or JSON file. The format follows
// the file extension; anything other than .json is decoded as YAML.
type FileSource struct {
	path string
}

// NewFileSource returns a source backed by path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file the source reads.
func (f *FileSource) Path() string { return f.path }

// Revision derives a token from the file's size and modification time.
func (f *FileSource) Revision(_ context.Context) (string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", f.path, err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Load reads, decodes and validates the file.
func (f *FileSource) Load(_ context.Context) (*model.Snapshot, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return Decode(raw, strings.EqualFold(filepath.Ext(f.path), ".json"))
}

// Decode parses raw as JSON or YAML and validates the result.
func Decode(raw []byte, isJSON bool) (*model.Snapshot, error) {
	var s model.Snapshot
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", model.ErrInvalidSnapshot, err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %w", model.ErrInvalidSnapshot, err)
		}
	}
	if err := model.Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MemorySource serves a snapshot held in memory. Each Set bumps the revision.
type MemorySource struct {
	mu   sync.Mutex
	snap *model.Snapshot
	rev  int
	err  error
}

// NewMemorySource returns a source serving s. A nil s behaves like a missing
// file until Set is called.
func NewMemorySource(s *model.Snapshot) *MemorySource {
	m := &MemorySource{}
	if s != nil {
		m.Set(s)
	}
	return m
}

// Set replaces the served snapshot.
func (m *MemorySource) Set(s *model.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = s
	m.err = nil
	m.rev++
}

// Fail makes the next loads return err until Set is called.
func (m *MemorySource) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	m.rev++
}

// Revision reports the current revision.
func (m *MemorySource) Revision(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil && m.err == nil {
		return "", fmt.Errorf("memory source: %w", os.ErrNotExist)
	}
	return fmt.Sprintf("mem-%d", m.rev), nil
}

// Load validates and returns a copy of the served snapshot.
func (m *MemorySource) Load(_ context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.snap == nil {
		return nil, fmt.Errorf("memory source: %w", os.ErrNotExist)
	}
	cp := *m.snap
	if err := model.Validate(&cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
