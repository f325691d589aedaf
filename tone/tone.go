// Package tone maps Cantonese tone numbers to the coarse contour labels used
// in lyric writing. Two labeling systems are in common use: 1056 and 0243.
// Both bucket the nine tones into four pitch groups; they differ only in
// which digit names each group.
//
// Reference: https://www.hk01.com/社區專題/118873/填詞其實唔難-粵語歌愛好者話你知填詞冷知識
package tone

// Scheme selects one of the two contour labeling systems.
type Scheme string

const (
	// Scheme1056 labels high tones "1", low falling "0", mid "5", low "6".
	Scheme1056 Scheme = "1056"
	// Scheme0243 labels high tones "3", low falling "0", mid "2", low "4".
	Scheme0243 Scheme = "0243"
)

// DefaultScheme is the system the published reference charts use.
const DefaultScheme = Scheme0243

func (s Scheme) String() string { return string(s) }

// IsValid reports whether s is one of the two known labeling systems.
func (s Scheme) IsValid() bool {
	switch s {
	case Scheme1056, Scheme0243:
		return true
	}
	return false
}

// Unknown is returned by Group for tone numbers outside the tables. It is a
// regular output value, not an error: callers display it as-is.
const Unknown = "?"

// 1056 system:
//   1: high tones (1, 2, 7)
//   0: low falling (4)
//   5: mid tones (3, 5, 8)
//   6: low tones (6, 9)
var groups1056 = map[int]string{
	1: "1", 2: "1", 7: "1",
	4: "0",
	3: "5", 5: "5", 8: "5",
	6: "6", 9: "6",
}

// 0243 system: same buckets, different digits.
//   3: high tones (1, 2, 7)
//   0: low falling (4)
//   2: mid tones (3, 5, 8)
//   4: low tones (6, 9)
var groups0243 = map[int]string{
	1: "3", 2: "3", 7: "3",
	4: "0",
	3: "2", 5: "2", 8: "2",
	6: "4", 9: "4",
}

// Group returns the single-digit contour label for a tone number under the
// given scheme. Tones outside 1-9 map to Unknown.
func Group(tone int, scheme Scheme) string {
	m := groups0243
	if scheme == Scheme1056 {
		m = groups1056
	}
	if label, ok := m[tone]; ok {
		return label
	}
	return Unknown
}

// Extract returns the tone number encoded as the trailing digit of a jyutping
// syllable, e.g. "jat1" -> 1, "nei5" -> 5. The second return is false when
// the syllable is empty or does not end in a digit 1-9, which is how
// punctuation and unrecognized tokens from the romanizer show up.
func Extract(syllable string) (int, bool) {
	if syllable == "" {
		return 0, false
	}
	last := syllable[len(syllable)-1]
	if last >= '1' && last <= '9' {
		return int(last - '0'), true
	}
	return 0, false
}
