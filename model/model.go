package model

import (
	"encoding/json"
	"fmt"
)

// Reading is one character entry inside a final's character list, exactly as
// stored in the rhyme dataset file.
type Reading struct {
	Char     string `json:"char"`
	Jyutping string `json:"jyutping"`
	Tone     int    `json:"tone"`
}

// ReadingRef locates one pronunciation of a character across the whole
// dataset: the final it lives under plus its syllable and tone.
type ReadingRef struct {
	Final    string `json:"final"`
	Jyutping string `json:"jyutping"`
	Tone     int    `json:"tone"`
}

// CharSyllable pairs one character of input text with its romanized syllable.
// Jyutping is empty when the romanizer does not know the character
// (punctuation, latin letters, rare characters). On the wire each pair is a
// two-element array [character, syllable], the convention romanization
// services and clients already speak.
type CharSyllable struct {
	Character string
	Jyutping  string
}

func (c CharSyllable) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Character, c.Jyutping})
}

// UnmarshalJSON accepts [character, syllable] with a null or missing
// syllable standing in for an unknown reading.
func (c *CharSyllable) UnmarshalJSON(data []byte) error {
	var pair [2]*string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if pair[0] == nil {
		return fmt.Errorf("character syllable pair: missing character")
	}
	c.Character = *pair[0]
	c.Jyutping = ""
	if pair[1] != nil {
		c.Jyutping = *pair[1]
	}
	return nil
}

// Romanization is the full answer to a romanization request.
type Romanization struct {
	Text         string         `json:"text"`
	Jyutping     []CharSyllable `json:"jyutping"`
	Romanization string         `json:"romanization"`
}

// RhymeCharacter is one rhyming candidate in a rhyme query result.
type RhymeCharacter struct {
	Character string `json:"character"`
	Jyutping  string `json:"jyutping"`
	Tone      int    `json:"tone"`
	ToneGroup string `json:"tone_group"`
}

// RhymeInput echoes the resolved reading of the queried character.
type RhymeInput struct {
	Character string `json:"character"`
	Jyutping  string `json:"jyutping"`
	Tone      int    `json:"tone"`
	ToneGroup string `json:"tone_group"`
}

// RhymeResult is the full answer to a rhyme query.
type RhymeResult struct {
	Input       RhymeInput       `json:"input"`
	Final       string           `json:"final"`
	System      string           `json:"system"`
	ToneFilter  string           `json:"tone_filter"`
	Rhymes      []RhymeCharacter `json:"rhymes"`
	Count       int              `json:"count"`
	TotalCount  int              `json:"total_count"`
	TargetTone  *int             `json:"target_tone,omitempty"`
	TargetGroup *string          `json:"target_group,omitempty"`
}

// FinalCharacters lists the characters stored under one final, optionally
// filtered by tone and truncated to a limit.
type FinalCharacters struct {
	Final      string    `json:"final"`
	ToneFilter *int      `json:"tone_filter"`
	Characters []Reading `json:"characters"`
	Count      int       `json:"count"`
	TotalCount int       `json:"total_count"`
}

// ToneBreakdown is the per-character detail of a tone-pattern analysis.
// Jyutping, Tone and Mapped are nil for characters the romanizer had no
// reading for (punctuation, symbols), which contribute nothing to the
// condensed pattern.
type ToneBreakdown struct {
	Character string  `json:"character"`
	Jyutping  *string `json:"jyutping"`
	Tone      *int    `json:"tone"`
	Mapped    *string `json:"mapped"`
}

// ToneAnalysis is the result of analyzing text under one labeling system.
type ToneAnalysis struct {
	Text      string          `json:"text"`
	System    string          `json:"system"`
	Pattern   string          `json:"pattern"`
	Breakdown []ToneBreakdown `json:"breakdown"`
}
