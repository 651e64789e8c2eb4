package domain

import (
	"strings"
	"time"
)

// VoiceCount is the number of pronunciations stored per word
const VoiceCount = 3

// UnclassifiedLevel is the proficiency tag used when a dictionary entry carries no JLPT marker
const UnclassifiedLevel = "JLPT N0"

// AudioSet holds one audio clip per configured voice. A nil entry means the voice produced nothing.
type AudioSet [VoiceCount][]byte

// Any reports whether at least one clip is present
func (a AudioSet) Any() bool {
	for _, clip := range a {
		if len(clip) > 0 {
			return true
		}
	}
	return false
}

// Present reports which clips are present
func (a AudioSet) Present() [VoiceCount]bool {
	var present [VoiceCount]bool
	for i, clip := range a {
		present[i] = len(clip) > 0
	}
	return present
}

// Word represents a saved vocabulary entry
type Word struct {
	ID        int
	Word      string
	Kanji     string
	Level     string
	Meaning   string
	Audio     AudioSet
	HasAudio  [VoiceCount]bool
	CreatedAt time.Time
}

// SpeechText returns the text to pronounce for this word
func (w Word) SpeechText(useKanji bool) string {
	return SpeechText(w.Word, w.Kanji, useKanji)
}

// WordPage is one page of a word listing
type WordPage struct {
	Words   []Word
	Total   int
	Page    int
	PerPage int
	Pages   int
}

// Candidate is one parsed dictionary sense offered for saving
type Candidate struct {
	Index    int
	Word     string
	Furigana string
	Kanji    string
	Level    string
	Meaning  string
}

// NormalizeLevel keeps the last token of a level tag ("JLPT N5" -> "N5")
func NormalizeLevel(level string) string {
	level = strings.TrimSpace(level)
	if i := strings.LastIndex(level, " "); i >= 0 {
		return level[i+1:]
	}
	return level
}

// SpeechText picks the kanji form when requested and available, otherwise the plain word
func SpeechText(word, kanji string, useKanji bool) string {
	if useKanji && strings.TrimSpace(kanji) != "" {
		return kanji
	}
	return word
}
