package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakitori/internal/domain"
)

var practiceColumns = []string{"id", "word", "meaning", "has1", "has2", "has3"}

func TestSessionRepo_CreateWithRandomWords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sessions DEFAULT VALUES RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery("FROM words ORDER BY RANDOM\\(\\) LIMIT \\$1").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(practiceColumns).
			AddRow(3, "たべる", "to eat", true, true, true).
			AddRow(8, "のむ", "to drink", true, false, false))
	mock.ExpectExec("INSERT INTO session_words \\(session_id, word_id\\) VALUES \\(\\$1, \\$2\\)").
		WithArgs(int64(11), 3).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO session_words \\(session_id, word_id\\) VALUES \\(\\$1, \\$2\\)").
		WithArgs(int64(11), 8).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("DELETE FROM session_attempts WHERE session_id = \\$1").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	id, words, err := repo.CreateWithRandomWords(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	require.Len(t, words, 2)
	assert.Equal(t, domain.PracticeWord{
		SessionID: 11,
		WordID:    3,
		Word:      "たべる",
		Meaning:   "to eat",
		HasAudio:  [domain.VoiceCount]bool{true, true, true},
	}, words[0])
	assert.Equal(t, int64(11), words[1].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_CreateWithRandomWords_EmptyVocabulary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sessions DEFAULT VALUES RETURNING id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectQuery("FROM words ORDER BY RANDOM\\(\\) LIMIT \\$1").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(practiceColumns))
	mock.ExpectRollback()

	id, words, err := repo.CreateWithRandomWords(context.Background(), 5)

	assert.ErrorIs(t, err, domain.ErrNoWords)
	assert.Zero(t, id)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Words(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("FROM session_words sw JOIN words w ON sw.word_id = w.id WHERE sw.session_id = \\$1 ORDER BY RANDOM\\(\\)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(practiceColumns).
			AddRow(3, "たべる", "to eat", true, false, false))

	words, err := repo.Words(context.Background(), 4, false)

	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, 3, words[0].WordID)
	assert.Equal(t, int64(4), words[0].SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Words_OnlyErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)
	t0 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM session_words sw").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(practiceColumns).
			AddRow(1, "たべる", "to eat", true, true, true).
			AddRow(2, "のむ", "to drink", true, true, true).
			AddRow(3, "みる", "to see", true, true, true).
			AddRow(5, "いく", "to go", true, true, true))
	mock.ExpectQuery("SELECT id, word_id, writing_correct, meaning_correct, attempted_at FROM session_attempts WHERE session_id = \\$1").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "word_id", "writing_correct", "meaning_correct", "attempted_at"}).
			AddRow(int64(1), 1, false, true, t0).
			AddRow(int64(2), 2, true, true, t0).
			AddRow(int64(3), 3, false, false, t0).
			AddRow(int64(4), 3, true, true, t0.Add(time.Minute)))

	words, err := repo.Words(context.Background(), 4, true)

	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, 1, words[0].WordID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Words_OnlyErrorsNoneMissed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("FROM session_words sw").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(practiceColumns).
			AddRow(2, "のむ", "to drink", true, true, true))
	mock.ExpectQuery("FROM session_attempts WHERE session_id = \\$1").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "word_id", "writing_correct", "meaning_correct", "attempted_at"}).
			AddRow(int64(2), 2, true, true, time.Now()))

	words, err := repo.Words(context.Background(), 4, true)

	require.NoError(t, err)
	assert.Empty(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Words_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("FROM session_words sw").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(practiceColumns).
			AddRow("invalid", "たべる", "to eat", true, false, false))

	words, err := repo.Words(context.Background(), 4, false)

	assert.Error(t, err)
	assert.Nil(t, words)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM sessions WHERE id = \\$1\\)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 4)

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_ClearAttempts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectExec("DELETE FROM session_attempts WHERE session_id = \\$1").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err = repo.ClearAttempts(context.Background(), 4)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_InsertAttempt(t *testing.T) {
	tests := []struct {
		name        string
		execErr     error
		expectedErr error
	}{
		{name: "recorded", execErr: nil},
		{name: "unknown word", execErr: &pq.Error{Code: pqForeignKeyViolation}, expectedErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewSessionRepo(db)

			exec := mock.ExpectExec("INSERT INTO session_attempts \\(session_id, word_id, writing_correct, meaning_correct\\)").
				WithArgs(int64(4), 3, true, false)
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err = repo.InsertAttempt(context.Background(), domain.Attempt{
				SessionID:      4,
				WordID:         3,
				WritingCorrect: true,
				MeaningCorrect: false,
			})

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepo_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT \\(SELECT COUNT\\(\\*\\) FROM session_words WHERE session_id = \\$1\\)").
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"words", "attempts", "correct"}).AddRow(5, 5, 3))

	words, attempts, correct, err := repo.Counts(context.Background(), 4)

	assert.NoError(t, err)
	assert.Equal(t, 5, words)
	assert.Equal(t, 5, attempts)
	assert.Equal(t, 3, correct)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Counts_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT \\(SELECT COUNT").
		WithArgs(int64(4)).
		WillReturnError(fmt.Errorf("query error"))

	_, _, _, err = repo.Counts(context.Background(), 4)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepo_Latest(t *testing.T) {
	tests := []struct {
		name        string
		rows        *sqlmock.Rows
		expected    int64
		expectedErr error
	}{
		{
			name:     "sessions exist",
			rows:     sqlmock.NewRows([]string{"id"}).AddRow(int64(9)),
			expected: 9,
		},
		{
			name:        "no sessions",
			rows:        sqlmock.NewRows([]string{"id"}),
			expectedErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewSessionRepo(db)

			mock.ExpectQuery("SELECT id FROM sessions ORDER BY id DESC LIMIT 1").
				WillReturnRows(tt.rows)

			id, err := repo.Latest(context.Background())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, id)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
