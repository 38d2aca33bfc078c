// Package staging holds the client-side list of candidate files before a
// bulk upload. It is pure state plus validation; no I/O happens here.
package staging

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/thehamzam/kyc-idp/internal/domain"
)

// StagedFile is one candidate file with its validation verdict. A staged
// file is never mutated after validation; the only mutations on the model
// are removal and clear.
type StagedFile struct {
	Name  string
	Size  int64
	Data  []byte
	Valid bool
	Error string
}

// Model accumulates staged files in selection order.
type Model struct {
	files       []StagedFile
	maxFileSize int64
}

// NewModel creates a staging model. maxFileSize <= 0 falls back to the
// default 10MB limit.
func NewModel(maxFileSize int64) *Model {
	if maxFileSize <= 0 {
		maxFileSize = domain.DefaultMaxFileSize
	}
	return &Model{maxFileSize: maxFileSize}
}

// Add stages each candidate, skipping any whose name and size match an
// already-staged file. Invalid candidates are staged with their error
// recorded so the user can see and fix them; they are never submitted.
func (m *Model) Add(candidates ...StagedFile) {
	for _, c := range candidates {
		if m.contains(c.Name, c.Size) {
			continue
		}
		c.Valid, c.Error = m.validate(c)
		m.files = append(m.files, c)
	}
}

// Remove deletes the entry at index i, preserving the order of the rest.
// Out-of-range indexes are ignored.
func (m *Model) Remove(i int) {
	if i < 0 || i >= len(m.files) {
		return
	}
	m.files = append(m.files[:i], m.files[i+1:]...)
}

// Clear empties the list.
func (m *Model) Clear() {
	m.files = nil
}

// Files returns all staged files in selection order.
func (m *Model) Files() []StagedFile {
	return m.files
}

// Valid returns the ordered sub-sequence of valid files. This is what gets
// submitted; invalid entries stay staged for the user to fix or remove.
func (m *Model) Valid() []StagedFile {
	var out []StagedFile
	for _, f := range m.files {
		if f.Valid {
			out = append(out, f)
		}
	}
	return out
}

// Len returns the number of staged files, valid or not.
func (m *Model) Len() int {
	return len(m.files)
}

func (m *Model) contains(name string, size int64) bool {
	for _, f := range m.files {
		if f.Name == name && f.Size == size {
			return true
		}
	}
	return false
}

func (m *Model) validate(c StagedFile) (bool, string) {
	if c.Size > m.maxFileSize {
		return false, fmt.Sprintf("exceeds %dMB limit", m.maxFileSize/(1024*1024))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(c.Name), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return false, "unsupported type; use JPEG, PNG, GIF, or WebP"
	}

	// When bytes are already in hand, sniff them too. Extension-only checks
	// are enough for fast feedback; the server re-checks regardless.
	if len(c.Data) > 0 {
		sniffLen := len(c.Data)
		if sniffLen > 512 {
			sniffLen = 512
		}
		detected := http.DetectContentType(c.Data[:sniffLen])
		if _, ok := domain.AllowedContentTypes[detected]; !ok {
			return false, "file content does not match an accepted image type"
		}
	}

	return true, ""
}
