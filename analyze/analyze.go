// Package analyze turns Chinese text into romanizations and condensed
// tone contour patterns for lyric matching.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"tinci/jyutping"
	"tinci/model"
	"tinci/tone"
)

// Analyzer runs text through a romanizer and labels each syllable's
// tone under a contour scheme.
type Analyzer struct {
	rom jyutping.Romanizer
}

func NewAnalyzer(rom jyutping.Romanizer) *Analyzer {
	return &Analyzer{rom: rom}
}

// Romanize returns the per-character jyutping of text plus the
// syllables joined into one readable romanization string.
func (a *Analyzer) Romanize(ctx context.Context, text string) (model.Romanization, error) {
	pairs, err := a.rom.Romanize(ctx, text)
	if err != nil {
		return model.Romanization{}, fmt.Errorf("romanize %q: %w", text, err)
	}
	syllables := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.Jyutping != "" {
			syllables = append(syllables, p.Jyutping)
		}
	}
	return model.Romanization{
		Text:         text,
		Jyutping:     pairs,
		Romanization: strings.Join(syllables, " "),
	}, nil
}

// Tones romanizes text and maps every tonal syllable to its contour
// label under the scheme. Characters without a tone (punctuation,
// unknown characters) get a nil tone and label and are skipped in the
// condensed pattern string.
func (a *Analyzer) Tones(ctx context.Context, text string, scheme tone.Scheme) (model.ToneAnalysis, error) {
	if scheme == "" {
		scheme = tone.DefaultScheme
	}
	if !scheme.IsValid() {
		return model.ToneAnalysis{}, fmt.Errorf("unknown tone scheme %q", scheme)
	}

	pairs, err := a.rom.Romanize(ctx, text)
	if err != nil {
		return model.ToneAnalysis{}, fmt.Errorf("analyze %q: %w", text, err)
	}

	var pattern strings.Builder
	breakdown := make([]model.ToneBreakdown, 0, len(pairs))
	for _, p := range pairs {
		item := model.ToneBreakdown{Character: p.Character}
		if p.Jyutping != "" {
			syll := p.Jyutping
			item.Jyutping = &syll
		}
		if t, ok := tone.Extract(p.Jyutping); ok {
			mapped := tone.Group(t, scheme)
			item.Tone = &t
			item.Mapped = &mapped
			pattern.WriteString(mapped)
		}
		breakdown = append(breakdown, item)
	}

	return model.ToneAnalysis{
		Text:      text,
		System:    scheme.String(),
		Pattern:   pattern.String(),
		Breakdown: breakdown,
	}, nil
}
