package dictionary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kanavoice/kanavoice/pkg/logger"
)

// ErrArityMismatch is returned by AddBatch when the english and
// katakana lists have different lengths.
var ErrArityMismatch = errors.New("english and katakana counts do not match")

// Entry is one pronunciation mapping. English keys are stored
// lowercase; on-disk order is insertion order.
type Entry struct {
	English  string
	Katakana string
}

// BatchResult reports the outcome for one element of a batch operation.
type BatchResult struct {
	English  string
	Katakana string
	OK       bool
	Updated  bool
	Err      error
}

// Store persists the pronunciation dictionary in a two-column UTF-8 CSV
// file shared across independently running instances. The file is the
// source of truth: every operation re-reads it (with a cheap mtime
// skip), and mutations rewrite it atomically via a temp file + rename.
type Store struct {
	path string

	mu    sync.Mutex
	cache []Entry
	mtime time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Entries returns the full ordered dictionary, re-read from disk.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Lookup returns the katakana reading for a word. A missing key is not
// an error; ok reports whether the word was found.
func (s *Store) Lookup(word string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	key := strings.ToLower(strings.TrimSpace(word))
	for _, e := range entries {
		if e.English == key {
			return e.Katakana, true, nil
		}
	}
	return "", false, nil
}

// Add upserts a single entry. The returned bool reports whether an
// existing entry was updated rather than appended.
func (s *Store) Add(english, katakana string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(english))
	katakana = strings.TrimSpace(katakana)
	if key == "" || katakana == "" {
		return false, fmt.Errorf("both english and katakana are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return false, err
	}

	updated := false
	next := make([]Entry, len(entries))
	copy(next, entries)
	for i, e := range next {
		if e.English == key {
			next[i].Katakana = katakana
			updated = true
			break
		}
	}
	if !updated {
		next = append(next, Entry{English: key, Katakana: katakana})
	}

	if err := s.writeAll(next); err != nil {
		return false, err
	}
	logger.DebugCF("dictionary", "Entry stored", map[string]any{
		"english": key,
		"updated": updated,
	})
	return updated, nil
}

// Remove deletes the entry for a key. A missing key is a no-op, not an
// error; the returned bool reports whether anything was removed.
func (s *Store) Remove(english string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(english))

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return false, err
	}

	next := make([]Entry, 0, len(entries))
	removed := false
	for _, e := range entries {
		if e.English == key {
			removed = true
			continue
		}
		next = append(next, e)
	}
	if !removed {
		return false, nil
	}

	if err := s.writeAll(next); err != nil {
		return false, err
	}
	logger.DebugCF("dictionary", "Entry removed", map[string]any{"english": key})
	return true, nil
}

// AddBatch upserts comma-separated english/katakana pairs positionally.
// Mismatched counts fail with ErrArityMismatch and leave the store
// untouched.
func (s *Store) AddBatch(english, katakana string) ([]BatchResult, error) {
	englishList := splitBatch(english)
	katakanaList := splitBatch(katakana)
	if len(englishList) != len(katakanaList) {
		return nil, fmt.Errorf("%w: %d english, %d katakana",
			ErrArityMismatch, len(englishList), len(katakanaList))
	}

	results := make([]BatchResult, 0, len(englishList))
	for i, eng := range englishList {
		kana := katakanaList[i]
		updated, err := s.Add(eng, kana)
		results = append(results, BatchResult{
			English:  strings.ToLower(eng),
			Katakana: kana,
			OK:       err == nil,
			Updated:  updated,
			Err:      err,
		})
	}
	return results, nil
}

// RemoveBatch deletes comma-separated keys. Absent keys are reported
// per element, never as errors.
func (s *Store) RemoveBatch(english string) []BatchResult {
	results := make([]BatchResult, 0, 4)
	for _, eng := range splitBatch(english) {
		removed, err := s.Remove(eng)
		results = append(results, BatchResult{
			English: strings.ToLower(eng),
			OK:      err == nil && removed,
			Err:     err,
		})
	}
	return results
}

func splitBatch(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// load re-reads the backing file unless its mtime matches the cached
// copy. Callers must hold s.mu.
func (s *Store) load() ([]Entry, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.cache = nil
		s.mtime = time.Time{}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat dictionary: %w", err)
	}
	if !s.mtime.IsZero() && info.ModTime().Equal(s.mtime) {
		return s.cache, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, row := range records {
		if len(row) < 2 {
			continue
		}
		entries = append(entries, Entry{
			English:  strings.ToLower(row[0]),
			Katakana: row[1],
		})
	}

	s.cache = entries
	s.mtime = info.ModTime()
	return entries, nil
}

// writeAll replaces the backing file atomically. Callers must hold s.mu.
func (s *Store) writeAll(entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".custom_words-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	for _, e := range entries {
		if err := writer.Write([]string{e.English, e.Katakana}); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write dictionary: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush dictionary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp dictionary: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace dictionary: %w", err)
	}

	s.cache = entries
	if info, err := os.Stat(s.path); err == nil {
		s.mtime = info.ModTime()
	}
	return nil
}
