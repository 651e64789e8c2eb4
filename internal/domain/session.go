package domain

import (
	"math"
	"time"
)

// Session represents one practice run over a fixed set of words
type Session struct {
	ID        int64
	CreatedAt time.Time
}

// Attempt is one recorded writing+meaning trial within a session
type Attempt struct {
	ID             int64
	SessionID      int64
	WordID         int
	WritingCorrect bool
	MeaningCorrect bool
	AttemptedAt    time.Time
}

// PracticeWord is a session word as presented to the learner
type PracticeWord struct {
	SessionID int64
	WordID    int
	Word      string
	Meaning   string
	HasAudio  [VoiceCount]bool
}

// Practice is the working set of a started run
type Practice struct {
	SessionID int64
	Words     []PracticeWord
}

// SessionSummary aggregates the live attempts of a session
type SessionSummary struct {
	SessionID int64
	Words     int
	Attempts  int
	Correct   int
	Score     float64
}

// Score converts fully-correct attempts over session words into a 0..10 grade rounded to two decimals.
// Every fully-correct attempt counts, so replays without a reset can push it past 10.
func Score(correct, words int) float64 {
	if words == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(words)*10*100) / 100
}

// MissedLastAttempt returns the ids of words whose most recent attempt missed writing or meaning.
// Recency follows AttemptedAt, with the attempt ID breaking ties.
func MissedLastAttempt(attempts []Attempt) map[int]bool {
	latest := make(map[int]Attempt, len(attempts))
	for _, a := range attempts {
		prev, ok := latest[a.WordID]
		if !ok || a.AttemptedAt.After(prev.AttemptedAt) ||
			(a.AttemptedAt.Equal(prev.AttemptedAt) && a.ID > prev.ID) {
			latest[a.WordID] = a
		}
	}

	missed := make(map[int]bool)
	for wordID, a := range latest {
		if !(a.WritingCorrect && a.MeaningCorrect) {
			missed[wordID] = true
		}
	}
	return missed
}
