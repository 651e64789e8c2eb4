package handler

import (
	"errors"

	"kakitori/internal/domain"
)

// errStaleCallback is returned when a button no longer matches the run's stage
var errStaleCallback = errors.New("callback does not match practice stage")

type stage int

const (
	stageIdle stage = iota
	stageListening
	stageJudgingWriting
	stageJudgingMeaning
	stageRecording
)

// userState is the per-user bot state: an optional practice run and the last looked up word
type userState struct {
	stage          stage
	sessionID      int64
	words          []domain.PracticeWord
	position       int
	writingCorrect bool
	lookupWord     string
}

func (s *userState) start(practice *domain.Practice) {
	s.stage = stageListening
	s.sessionID = practice.SessionID
	s.words = practice.Words
	s.position = 0
	s.writingCorrect = false
}

func (s *userState) current() (domain.PracticeWord, bool) {
	if s.stage == stageIdle || s.position >= len(s.words) {
		return domain.PracticeWord{}, false
	}
	return s.words[s.position], true
}

func (s *userState) reveal() error {
	if s.stage != stageListening {
		return errStaleCallback
	}
	s.stage = stageJudgingWriting
	return nil
}

func (s *userState) judgeWriting(ok bool) error {
	if s.stage != stageJudgingWriting {
		return errStaleCallback
	}
	s.writingCorrect = ok
	s.stage = stageJudgingMeaning
	return nil
}

// judgeMeaning builds the attempt of the current word and holds the run until
// the attempt is stored. Follow with commitAttempt or abortAttempt.
func (s *userState) judgeMeaning(ok bool) (domain.Attempt, error) {
	if s.stage != stageJudgingMeaning {
		return domain.Attempt{}, errStaleCallback
	}
	word := s.words[s.position]
	s.stage = stageRecording
	return domain.Attempt{
		SessionID:      s.sessionID,
		WordID:         word.WordID,
		WritingCorrect: s.writingCorrect,
		MeaningCorrect: ok,
	}, nil
}

// commitAttempt advances the run past the stored attempt
func (s *userState) commitAttempt() error {
	if s.stage != stageRecording {
		return errStaleCallback
	}
	s.position++
	s.writingCorrect = false
	s.stage = stageListening
	if s.position >= len(s.words) {
		s.stage = stageIdle
	}
	return nil
}

// abortAttempt reopens the meaning judgement of the current word
func (s *userState) abortAttempt() error {
	if s.stage != stageRecording {
		return errStaleCallback
	}
	s.stage = stageJudgingMeaning
	return nil
}

func (s *userState) finished() bool {
	return s.stage == stageIdle && len(s.words) > 0 && s.position >= len(s.words)
}
