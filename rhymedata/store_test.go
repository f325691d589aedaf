package rhymedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinci/model"
)

const fixture = `{
  "oi": {"characters": [
    {"char": "愛", "jyutping": "oi3", "tone": 3},
    {"char": "外", "jyutping": "ngoi6", "tone": 6},
    {"char": "改", "jyutping": "goi2", "tone": 2}
  ]},
  "ang": {"characters": [
    {"char": "行", "jyutping": "hang4", "tone": 4},
    {"char": "生", "jyutping": "sang1", "tone": 1}
  ]},
  "ong": {"characters": [
    {"char": "行", "jyutping": "hong4", "tone": 4},
    {"char": "黃", "jyutping": "wong4", "tone": 4},
    {"char": "旺", "jyutping": "wong6", "tone": 6}
  ]}
}`

func loadFixture(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rhymes.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	return s
}

func TestLoadKeepsDatasetOrder(t *testing.T) {
	s := loadFixture(t)

	readings, ok := s.Readings("oi")
	require.True(t, ok)
	require.Len(t, readings, 3)
	assert.Equal(t, "愛", readings[0].Char)
	assert.Equal(t, "外", readings[1].Char)
	assert.Equal(t, "改", readings[2].Char)
}

func TestLoadEmbedded(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Finals())

	refs, ok := s.LookupCharacter("愛")
	require.True(t, ok)
	assert.Equal(t, "oi", refs[0].Final)
	assert.Equal(t, "oi3", refs[0].Jyutping)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoadMalformed(t *testing.T) {
	for name, data := range map[string]string{
		"not json":  "not json",
		"array":     `[1, 2, 3]`,
		"empty":     `{}`,
		"bad value": `{"oi": 42}`,
		"truncated": `{"oi": {"characters": [`,
	} {
		path := filepath.Join(t.TempDir(), "rhymes.json")
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrDataUnavailable, name)
	}
}

func TestFinalsSorted(t *testing.T) {
	s := loadFixture(t)
	assert.Equal(t, []string{"ang", "oi", "ong"}, s.Finals())
}

func TestLookupCharacterMultipleReadings(t *testing.T) {
	s := loadFixture(t)

	refs, ok := s.LookupCharacter("行")
	require.True(t, ok)
	require.Len(t, refs, 2)
	// Readings follow dataset order, so "ang" comes before "ong".
	assert.Equal(t, model.ReadingRef{Final: "ang", Jyutping: "hang4", Tone: 4}, refs[0])
	assert.Equal(t, model.ReadingRef{Final: "ong", Jyutping: "hong4", Tone: 4}, refs[1])

	_, ok = s.LookupCharacter("龜")
	assert.False(t, ok)
}

func TestCharactersByFinal(t *testing.T) {
	s := loadFixture(t)

	got, err := s.CharactersByFinal("oi", nil, 100)
	require.NoError(t, err)
	assert.Equal(t, "oi", got.Final)
	assert.Nil(t, got.ToneFilter)
	assert.Equal(t, 3, got.Count)
	assert.Equal(t, 3, got.TotalCount)
	assert.Equal(t, "愛", got.Characters[0].Char)
}

func TestCharactersByFinalToneFilter(t *testing.T) {
	s := loadFixture(t)

	tone := 4
	got, err := s.CharactersByFinal("ong", &tone, 100)
	require.NoError(t, err)
	require.Len(t, got.Characters, 2)
	assert.Equal(t, "行", got.Characters[0].Char)
	assert.Equal(t, "黃", got.Characters[1].Char)
	assert.Equal(t, 2, got.TotalCount)
}

func TestCharactersByFinalLimit(t *testing.T) {
	s := loadFixture(t)

	got, err := s.CharactersByFinal("oi", nil, 1)
	require.NoError(t, err)
	require.Len(t, got.Characters, 1)
	assert.Equal(t, "愛", got.Characters[0].Char)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 3, got.TotalCount)

	got, err = s.CharactersByFinal("oi", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Characters)
	assert.Equal(t, 3, got.TotalCount)

	got, err = s.CharactersByFinal("oi", nil, -5)
	require.NoError(t, err)
	assert.Empty(t, got.Characters)
}

func TestCharactersByFinalUnknown(t *testing.T) {
	s := loadFixture(t)

	_, err := s.CharactersByFinal("xyz", nil, 100)
	var unknown *UnknownFinalError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "xyz", unknown.Final)
	assert.Equal(t, []string{"ang", "oi", "ong"}, unknown.AvailableFinals)
}

func TestLookupCharacterIdempotent(t *testing.T) {
	s := loadFixture(t)

	first, ok := s.LookupCharacter("愛")
	require.True(t, ok)
	second, ok := s.LookupCharacter("愛")
	require.True(t, ok)
	assert.Equal(t, first, second)
}
