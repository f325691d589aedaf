// Package jyutping converts Chinese text into jyutping syllables,
// one per character.
package jyutping

import (
	"context"
	"unicode"

	"tinci/model"
	"tinci/rhymedata"
)

// Romanizer produces a per-character romanization of text. Characters
// without a known reading appear in the output with an empty syllable
// so the caller can keep positional alignment with the input.
type Romanizer interface {
	Romanize(ctx context.Context, text string) ([]model.CharSyllable, error)
}

// DictRomanizer romanizes from the rhyme dataset itself. It uses the
// first listed reading of each character and needs no network access.
type DictRomanizer struct {
	store *rhymedata.Store
}

func NewDictRomanizer(store *rhymedata.Store) *DictRomanizer {
	return &DictRomanizer{store: store}
}

func (r *DictRomanizer) Romanize(_ context.Context, text string) ([]model.CharSyllable, error) {
	out := make([]model.CharSyllable, 0, len([]rune(text)))
	for _, ch := range text {
		pair := model.CharSyllable{Character: string(ch)}
		if unicode.Is(unicode.Han, ch) {
			if readings, ok := r.store.LookupCharacter(pair.Character); ok {
				pair.Jyutping = readings[0].Jyutping
			}
		}
		out = append(out, pair)
	}
	return out, nil
}
