// Package rhyme finds characters sharing a syllable final, with
// optional tone constraints under a chosen contour scheme.
package rhyme

import (
	"fmt"

	"tinci/model"
	"tinci/rhymedata"
	"tinci/tone"
)

// FilterMode selects which tones count as a rhyme when no explicit
// target is given.
type FilterMode string

const (
	// FilterAll accepts every tone in the final.
	FilterAll FilterMode = "all"
	// FilterSame requires the exact tone of the input character.
	FilterSame FilterMode = "same"
	// FilterGroup requires the same contour group under the scheme.
	FilterGroup FilterMode = "group"

	DefaultFilter = FilterAll
)

func (m FilterMode) IsValid() bool {
	switch m {
	case FilterAll, FilterSame, FilterGroup:
		return true
	}
	return false
}

func (m FilterMode) String() string { return string(m) }

// UnknownCharacterError reports a lookup for a character the dataset
// has no reading for.
type UnknownCharacterError struct {
	Character string
}

func (e *UnknownCharacterError) Error() string {
	return fmt.Sprintf("character %q not found in rhyme dataset", e.Character)
}

// Query describes one rhyme search. TargetTone takes precedence over
// TargetGroup, and both take precedence over Mode.
type Query struct {
	Character   string
	Mode        FilterMode
	Scheme      tone.Scheme
	Limit       int
	TargetTone  *int
	TargetGroup *string
}

// Engine answers rhyme queries against a loaded dataset.
type Engine struct {
	store *rhymedata.Store
}

func NewEngine(store *rhymedata.Store) *Engine {
	return &Engine{store: store}
}

// Find resolves the query character to its first reading and collects
// every other character in that reading's final that passes the tone
// constraint. Rhymes keep dataset order. TotalCount counts matches
// before the limit is applied; a limit of zero or less yields no
// rhymes but still reports the total.
func (e *Engine) Find(q Query) (model.RhymeResult, error) {
	if q.Mode == "" {
		q.Mode = DefaultFilter
	}
	if !q.Mode.IsValid() {
		return model.RhymeResult{}, fmt.Errorf("unknown tone filter %q", q.Mode)
	}
	scheme := q.Scheme
	if scheme == "" {
		scheme = tone.DefaultScheme
	}
	if !scheme.IsValid() {
		return model.RhymeResult{}, fmt.Errorf("unknown tone scheme %q", scheme)
	}

	readings, ok := e.store.LookupCharacter(q.Character)
	if !ok {
		return model.RhymeResult{}, &UnknownCharacterError{Character: q.Character}
	}
	first := readings[0]
	group := tone.Group(first.Tone, scheme)

	candidates, _ := e.store.Readings(first.Final)
	matched := make([]model.RhymeCharacter, 0, len(candidates))
	for _, c := range candidates {
		if c.Char == q.Character {
			continue
		}
		switch {
		case q.TargetTone != nil:
			if c.Tone != *q.TargetTone {
				continue
			}
		case q.TargetGroup != nil:
			if tone.Group(c.Tone, scheme) != *q.TargetGroup {
				continue
			}
		case q.Mode == FilterSame:
			if c.Tone != first.Tone {
				continue
			}
		case q.Mode == FilterGroup:
			if tone.Group(c.Tone, scheme) != group {
				continue
			}
		}
		matched = append(matched, model.RhymeCharacter{
			Character: c.Char,
			Jyutping:  c.Jyutping,
			Tone:      c.Tone,
			ToneGroup: tone.Group(c.Tone, scheme),
		})
	}

	total := len(matched)
	limit := q.Limit
	if limit < 0 {
		limit = 0
	}
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return model.RhymeResult{
		Input: model.RhymeInput{
			Character: q.Character,
			Jyutping:  first.Jyutping,
			Tone:      first.Tone,
			ToneGroup: group,
		},
		Final:       first.Final,
		System:      scheme.String(),
		ToneFilter:  q.Mode.String(),
		Rhymes:      matched,
		Count:       len(matched),
		TotalCount:  total,
		TargetTone:  q.TargetTone,
		TargetGroup: q.TargetGroup,
	}, nil
}
