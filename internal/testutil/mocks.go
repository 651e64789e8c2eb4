package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kakitori/internal/domain"
)

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) Exists(ctx context.Context, word string) (bool, error) {
	args := m.Called(ctx, word)
	return args.Bool(0), args.Error(1)
}

func (m *MockWordRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) Insert(ctx context.Context, w domain.Word) (int, error) {
	args := m.Called(ctx, w)
	return args.Int(0), args.Error(1)
}

func (m *MockWordRepository) Get(ctx context.Context, id int) (*domain.Word, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func (m *MockWordRepository) List(ctx context.Context, limit, offset int, search string) ([]domain.Word, int, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Word), args.Int(1), args.Error(2)
}

func (m *MockWordRepository) Update(ctx context.Context, id int, kanji, level, meaning string) error {
	args := m.Called(ctx, id, kanji, level, meaning)
	return args.Error(0)
}

func (m *MockWordRepository) UpdateAudio(ctx context.Context, id int, audio domain.AudioSet) error {
	args := m.Called(ctx, id, audio)
	return args.Error(0)
}

func (m *MockWordRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWordRepository) GetAudio(ctx context.Context, id int, n int) ([]byte, error) {
	args := m.Called(ctx, id, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockSessionRepository is a mock for SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateWithRandomWords(ctx context.Context, count int) (int64, []domain.PracticeWord, error) {
	args := m.Called(ctx, count)
	if args.Get(1) == nil {
		return args.Get(0).(int64), nil, args.Error(2)
	}
	return args.Get(0).(int64), args.Get(1).([]domain.PracticeWord), args.Error(2)
}

func (m *MockSessionRepository) Exists(ctx context.Context, sessionID int64) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) Words(ctx context.Context, sessionID int64, onlyErrors bool) ([]domain.PracticeWord, error) {
	args := m.Called(ctx, sessionID, onlyErrors)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PracticeWord), args.Error(1)
}

func (m *MockSessionRepository) ClearAttempts(ctx context.Context, sessionID int64) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepository) InsertAttempt(ctx context.Context, a domain.Attempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockSessionRepository) Counts(ctx context.Context, sessionID int64) (int, int, int, error) {
	args := m.Called(ctx, sessionID)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

func (m *MockSessionRepository) Latest(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockDictionarySource is a mock for provider.DictionarySource
type MockDictionarySource struct {
	mock.Mock
}

func (m *MockDictionarySource) Search(ctx context.Context, word string, limit int) ([]domain.Candidate, error) {
	args := m.Called(ctx, word, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Candidate), args.Error(1)
}

// MockTranslator is a mock for provider.Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

// MockSpeechProvider is a mock for provider.SpeechProvider
type MockSpeechProvider struct {
	mock.Mock
}

func (m *MockSpeechProvider) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSpeechProvider) Synthesize(ctx context.Context, voice, text string) ([]byte, error) {
	args := m.Called(ctx, voice, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
