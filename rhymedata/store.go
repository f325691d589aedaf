// Package rhymedata loads the static finals-keyed rhyme dataset and builds
// the reverse character index over it. The dataset maps each jyutping final
// (韻母) to the ordered list of characters pronounced with it; order follows
// the source file and is meaningful, so decoding keeps it.
package rhymedata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"tinci/model"
)

//go:embed data/rhymes.json
var embeddedDataset []byte

// ErrDataUnavailable marks a missing or malformed dataset. No query can
// proceed without the dataset, so callers treat this as fatal.
var ErrDataUnavailable = errors.New("rhyme dataset unavailable")

// UnknownFinalError is returned when a requested final is not in the dataset.
// It carries the full finals list so callers can report what is available.
type UnknownFinalError struct {
	Final           string
	AvailableFinals []string
}

func (e *UnknownFinalError) Error() string {
	return fmt.Sprintf("final %q not found in rhyme dataset", e.Final)
}

// finalEntry is the on-disk shape of one final's value.
type finalEntry struct {
	Characters []model.Reading `json:"characters"`
}

// Store holds the decoded dataset. It is immutable after Load returns and
// safe for concurrent readers; the character index is built once on first
// use.
type Store struct {
	finals  []string                   // dataset order
	entries map[string][]model.Reading // final -> readings, dataset order

	indexOnce sync.Once
	index     map[string][]model.ReadingRef
}

// Load reads the dataset from path, or from the embedded copy when path is
// empty. Any read or decode failure wraps ErrDataUnavailable.
func Load(path string) (*Store, error) {
	data := embeddedDataset
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, path, err)
		}
		data = b
	}
	return parse(data)
}

// parse decodes the finals object token by token so the file's key order
// survives (a plain map unmarshal would lose it).
func parse(data []byte) (*Store, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrDataUnavailable, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrDataUnavailable)
	}

	s := &Store{entries: make(map[string][]model.Reading)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: decode key: %v", ErrDataUnavailable, err)
		}
		final, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string final key", ErrDataUnavailable)
		}
		var entry finalEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("%w: decode final %q: %v", ErrDataUnavailable, final, err)
		}
		if _, seen := s.entries[final]; !seen {
			s.finals = append(s.finals, final)
		}
		s.entries[final] = append(s.entries[final], entry.Characters...)
	}

	if len(s.finals) == 0 {
		return nil, fmt.Errorf("%w: dataset holds no finals", ErrDataUnavailable)
	}
	return s, nil
}

// Finals returns every final in the dataset, alphabetically sorted.
func (s *Store) Finals() []string {
	out := make([]string, len(s.finals))
	copy(out, s.finals)
	sort.Strings(out)
	return out
}

// Readings returns the ordered readings stored under a final.
func (s *Store) Readings(final string) ([]model.Reading, bool) {
	r, ok := s.entries[final]
	return r, ok
}

// buildIndex derives the reverse character index: finals are walked in
// dataset order, then readings in their stored order, so each character's
// reading list is deterministic.
func (s *Store) buildIndex() {
	s.index = make(map[string][]model.ReadingRef)
	for _, final := range s.finals {
		for _, r := range s.entries[final] {
			s.index[r.Char] = append(s.index[r.Char], model.ReadingRef{
				Final:    final,
				Jyutping: r.Jyutping,
				Tone:     r.Tone,
			})
		}
	}
}

// LookupCharacter returns every reading of a character across the dataset.
// A miss is a normal outcome: many valid characters are outside the dataset.
func (s *Store) LookupCharacter(char string) ([]model.ReadingRef, bool) {
	s.indexOnce.Do(s.buildIndex)
	refs, ok := s.index[char]
	return refs, ok
}

// CharactersByFinal lists the readings under a final, optionally keeping only
// one tone, truncated to limit entries. TotalCount reflects the filtered set
// before truncation; truncation never reorders. An unknown final yields an
// *UnknownFinalError carrying the sorted finals list.
func (s *Store) CharactersByFinal(final string, toneFilter *int, limit int) (model.FinalCharacters, error) {
	all, ok := s.entries[final]
	if !ok {
		return model.FinalCharacters{}, &UnknownFinalError{Final: final, AvailableFinals: s.Finals()}
	}

	filtered := all
	if toneFilter != nil {
		filtered = make([]model.Reading, 0, len(all))
		for _, r := range all {
			if r.Tone == *toneFilter {
				filtered = append(filtered, r)
			}
		}
	}

	n := limit
	if n < 0 {
		n = 0
	}
	if n > len(filtered) {
		n = len(filtered)
	}
	out := make([]model.Reading, n)
	copy(out, filtered[:n])

	return model.FinalCharacters{
		Final:      final,
		ToneFilter: toneFilter,
		Characters: out,
		Count:      len(out),
		TotalCount: len(filtered),
	}, nil
}
