package testutil

import (
	"time"

	"go.uber.org/zap"

	"kakitori/internal/domain"
)

// Voices are the voice identities used across service tests
var Voices = []string{"ja-JP-NaokiNeural", "ja-JP-NanamiNeural", "ja-JP-AoiNeural"}

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestWord creates a test word with all three pronunciations present
func NewTestWord(id int, word, kanji, meaning string) *domain.Word {
	audio := domain.AudioSet{[]byte("a1"), []byte("a2"), []byte("a3")}
	return &domain.Word{
		ID:        id,
		Word:      word,
		Kanji:     kanji,
		Level:     "N5",
		Meaning:   meaning,
		Audio:     audio,
		HasAudio:  audio.Present(),
		CreatedAt: time.Now(),
	}
}

// NewTestCandidate creates a dictionary candidate
func NewTestCandidate(index int, word, kanji, level, meaning string) domain.Candidate {
	return domain.Candidate{
		Index:   index,
		Word:    word,
		Kanji:   kanji,
		Level:   level,
		Meaning: meaning,
	}
}

// NewTestPracticeWord creates a practice word linked to a session
func NewTestPracticeWord(sessionID int64, wordID int, word, meaning string) domain.PracticeWord {
	return domain.PracticeWord{
		SessionID: sessionID,
		WordID:    wordID,
		Word:      word,
		Meaning:   meaning,
		HasAudio:  [domain.VoiceCount]bool{true, true, true},
	}
}
