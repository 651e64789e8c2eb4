package domain

import "errors"

var (
	// ErrNotFound is returned when a word or session does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateWord is returned when a word with the same surface form is already saved
	ErrDuplicateWord = errors.New("word already exists")
	// ErrProviderUnavailable is returned when no voice produced audio
	ErrProviderUnavailable = errors.New("speech provider unavailable")
	// ErrNoMeanings is returned when the dictionary yields no usable candidates
	ErrNoMeanings = errors.New("no meanings found")
	// ErrInvalidMeaningIndex is returned when the selected candidate is out of range
	ErrInvalidMeaningIndex = errors.New("invalid meaning index")
	// ErrInvalidAudioIndex is returned for audio numbers outside 1..3
	ErrInvalidAudioIndex = errors.New("audio number must be 1, 2, or 3")
	// ErrNoWords is returned when a practice run would have no words
	ErrNoWords = errors.New("no words found")
	// ErrEmptyInput is returned when a required field is blank
	ErrEmptyInput = errors.New("empty input")
)
