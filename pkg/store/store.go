package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store manages the filesystem-backed item records.
type Store struct {
	Root string // e.g., ~/.chronos
}

// Reserved top-level directories that hold non-item data. ListAll skips
// these when walking the root.
var reservedDirs = map[string]bool{
	"schedules": true,
	"logs":      true,
	"data":      true,
	"exports":   true,
	"archives":  true,
	"settings":  true,
	"scripts":   true,
	"media":     true,
	"backups":   true,
	"profile":   true,
	"reviews":   true,
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory if it doesn't exist.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{Root: root}, nil
}

// TypePath returns the directory holding records of the given type.
func (s *Store) TypePath(typ string) string {
	return filepath.Join(s.Root, TypeDir(typ))
}

// ItemPath returns the canonical file path for (type, name).
func (s *Store) ItemPath(typ, name string) string {
	return filepath.Join(s.TypePath(typ), Slug(name)+".yml")
}

// Read loads a single item. A missing item returns (nil, nil); only
// unreadable or unparseable files return an error.
func (s *Store) Read(typ, name string) (*Item, error) {
	dir := s.TypePath(typ)

	candidates := append([]string{Slug(name)}, legacySlugs(name)...)
	seen := make(map[string]bool)
	for _, slug := range candidates {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		path := filepath.Join(dir, slug+".yml")
		it, err := s.loadItemFile(path, typ)
		if err != nil {
			return nil, err
		}
		if it != nil {
			return it, nil
		}
	}

	// Last resort: scan the directory and match the in-record name field.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		it, err := s.loadItemFile(filepath.Join(dir, entry.Name()), typ)
		if err != nil || it == nil {
			continue // skip broken records during the scan
		}
		if strings.EqualFold(it.Name, strings.TrimSpace(name)) {
			return it, nil
		}
	}
	return nil, nil
}

// loadItemFile reads one record file. A missing file returns (nil, nil).
func (s *Store) loadItemFile(path, typ string) (*Item, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var it Item
	if err := yaml.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), ".yml")
	if it.Name == "" {
		it.Name = base
	}
	if it.Type == "" {
		it.Type = strings.ToLower(typ)
	}
	it.Slug = base
	it.Path = path
	return &it, nil
}

// Write persists an item record, creating parent directories as needed.
// Writes are atomic (temp file + rename); concurrent writers are
// last-writer-wins.
func (s *Store) Write(typ, name string, it *Item) error {
	if it.Name == "" {
		it.Name = name
	}
	if it.Type == "" {
		it.Type = strings.ToLower(typ)
	}

	dir := s.TypePath(typ)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := yaml.Marshal(it)
	if err != nil {
		return fmt.Errorf("serializing %s/%s: %w", typ, name, err)
	}

	path := filepath.Join(dir, Slug(name)+".yml")
	if it.Slug != "" && it.Slug != Slug(name) {
		// The record was loaded from a legacy slug; write back to the same
		// file so Write(Read(x)) doesn't fork the record.
		path = filepath.Join(dir, it.Slug+".yml")
	}
	it.Path = path
	return WriteAtomic(path, data)
}

// Update re-persists an already-loaded item at its own path.
func (s *Store) Update(it *Item) error {
	return s.Write(it.Type, it.Name, it)
}

// Delete removes an item record. Returns true if something was deleted.
func (s *Store) Delete(typ, name string) bool {
	candidates := append([]string{Slug(name)}, legacySlugs(name)...)
	for _, slug := range candidates {
		path := filepath.Join(s.TypePath(typ), slug+".yml")
		if err := os.Remove(path); err == nil {
			return true
		}
	}
	return false
}

// List loads every record of one type. Broken records are skipped.
func (s *Store) List(typ string) ([]*Item, error) {
	dir := s.TypePath(typ)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var items []*Item
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		it, err := s.loadItemFile(filepath.Join(dir, entry.Name()), typ)
		if err != nil || it == nil {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// ListAll loads every item record under the root, skipping reserved
// directories and loose files.
func (s *Store) ListAll() ([]*Item, error) {
	entries, err := os.ReadDir(s.Root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading root: %w", err)
	}

	var items []*Item
	for _, entry := range entries {
		if !entry.IsDir() || reservedDirs[strings.ToLower(entry.Name())] {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		typ := strings.TrimSuffix(strings.ToLower(entry.Name()), "s")
		typed, err := s.List(typ)
		if err != nil {
			continue
		}
		items = append(items, typed...)
	}
	return items, nil
}

// Create writes a minimal new record for (type, name) unless one already
// exists, in which case the existing record is returned untouched. Used by
// achievement/reward trigger actions.
func (s *Store) Create(typ, name string) (*Item, error) {
	existing, err := s.Read(typ, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	it := &Item{Name: name, Type: strings.ToLower(typ)}
	if err := s.Write(typ, name, it); err != nil {
		return nil, err
	}
	return it, nil
}

// WriteAtomic writes data to path via a temp file and rename, so readers
// never observe a torn file.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
