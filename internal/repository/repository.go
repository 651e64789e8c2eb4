package repository

import (
	"context"

	"kakitori/internal/domain"
)

// WordRepository defines vocabulary store operations
type WordRepository interface {
	Exists(ctx context.Context, word string) (bool, error)
	Count(ctx context.Context) (int, error)
	Insert(ctx context.Context, w domain.Word) (int, error)
	Get(ctx context.Context, id int) (*domain.Word, error)
	List(ctx context.Context, limit, offset int, search string) ([]domain.Word, int, error)
	Update(ctx context.Context, id int, kanji, level, meaning string) error
	UpdateAudio(ctx context.Context, id int, audio domain.AudioSet) error
	Delete(ctx context.Context, id int) error
	GetAudio(ctx context.Context, id int, n int) ([]byte, error)
}

// SessionRepository defines practice session operations
type SessionRepository interface {
	CreateWithRandomWords(ctx context.Context, count int) (int64, []domain.PracticeWord, error)
	Exists(ctx context.Context, sessionID int64) (bool, error)
	Words(ctx context.Context, sessionID int64, onlyErrors bool) ([]domain.PracticeWord, error)
	ClearAttempts(ctx context.Context, sessionID int64) error
	InsertAttempt(ctx context.Context, a domain.Attempt) error
	Counts(ctx context.Context, sessionID int64) (words, attempts, correct int, err error)
	Latest(ctx context.Context) (int64, error)
}
