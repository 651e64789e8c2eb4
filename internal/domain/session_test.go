package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		words    int
		expected float64
	}{
		{
			name:     "no words",
			correct:  0,
			words:    0,
			expected: 0,
		},
		{
			name:     "three of five",
			correct:  3,
			words:    5,
			expected: 6.0,
		},
		{
			name:     "rounded to two decimals",
			correct:  1,
			words:    3,
			expected: 3.33,
		},
		{
			name:     "perfect",
			correct:  4,
			words:    4,
			expected: 10,
		},
		{
			name:     "repeated correct attempts exceed one pass",
			correct:  6,
			words:    5,
			expected: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.correct, tt.words))
		})
	}
}

func TestMissedLastAttempt(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		attempts []Attempt
		expected map[int]bool
	}{
		{
			name:     "no attempts",
			expected: map[int]bool{},
		},
		{
			name: "missed writing last, correct last, recovered after a miss",
			attempts: []Attempt{
				{ID: 1, WordID: 1, WritingCorrect: true, MeaningCorrect: true, AttemptedAt: t0},
				{ID: 2, WordID: 1, WritingCorrect: false, MeaningCorrect: true, AttemptedAt: t0.Add(time.Minute)},
				{ID: 3, WordID: 2, WritingCorrect: true, MeaningCorrect: true, AttemptedAt: t0},
				{ID: 4, WordID: 3, WritingCorrect: true, MeaningCorrect: false, AttemptedAt: t0},
				{ID: 5, WordID: 3, WritingCorrect: true, MeaningCorrect: true, AttemptedAt: t0.Add(time.Minute)},
			},
			expected: map[int]bool{1: true},
		},
		{
			name: "input order does not matter",
			attempts: []Attempt{
				{ID: 5, WordID: 3, WritingCorrect: true, MeaningCorrect: true, AttemptedAt: t0.Add(time.Minute)},
				{ID: 4, WordID: 3, WritingCorrect: false, MeaningCorrect: false, AttemptedAt: t0},
			},
			expected: map[int]bool{},
		},
		{
			name: "same timestamp falls back to id",
			attempts: []Attempt{
				{ID: 8, WordID: 4, WritingCorrect: false, MeaningCorrect: true, AttemptedAt: t0},
				{ID: 7, WordID: 4, WritingCorrect: true, MeaningCorrect: true, AttemptedAt: t0},
			},
			expected: map[int]bool{4: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MissedLastAttempt(tt.attempts))
		})
	}
}
