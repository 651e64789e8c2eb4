package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kakitori/internal/domain"
)

// SessionRepo implements repository.SessionRepository
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// CreateWithRandomWords creates a session and links up to count distinct random words to it.
// Nothing is committed when the vocabulary is empty.
func (r *SessionRepo) CreateWithRandomWords(ctx context.Context, count int) (int64, []domain.PracticeWord, error) {
	var (
		sessionID int64
		words     []domain.PracticeWord
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `INSERT INTO sessions DEFAULT VALUES RETURNING id`).Scan(&sessionID); err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		query := `
			SELECT id, word, meaning,
				audio1 IS NOT NULL, audio2 IS NOT NULL, audio3 IS NOT NULL
			FROM words
			ORDER BY RANDOM()
			LIMIT $1
		`
		rows, err := tx.QueryContext(ctx, query, count)
		if err != nil {
			return fmt.Errorf("draw random words: %w", err)
		}
		words, err = scanPracticeWords(rows, sessionID)
		if err != nil {
			return err
		}
		if len(words) == 0 {
			return domain.ErrNoWords
		}

		for _, w := range words {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO session_words (session_id, word_id) VALUES ($1, $2)`,
				sessionID, w.WordID,
			); err != nil {
				return fmt.Errorf("link word %d to session %d: %w", w.WordID, sessionID, err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM session_attempts WHERE session_id = $1`, sessionID); err != nil {
			return fmt.Errorf("clear attempts of session %d: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	return sessionID, words, nil
}

// Exists reports whether a session exists
func (r *SessionRepo) Exists(ctx context.Context, sessionID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check session exists: %w", err)
	}
	return exists, nil
}

// Words returns the linked words of a session in random order.
// With onlyErrors, only words whose latest attempt missed writing or meaning are returned.
func (r *SessionRepo) Words(ctx context.Context, sessionID int64, onlyErrors bool) ([]domain.PracticeWord, error) {
	query := `
		SELECT w.id, w.word, w.meaning,
			w.audio1 IS NOT NULL, w.audio2 IS NOT NULL, w.audio3 IS NOT NULL
		FROM session_words sw
		JOIN words w ON sw.word_id = w.id
		WHERE sw.session_id = $1
		ORDER BY RANDOM()
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get words of session %d: %w", sessionID, err)
	}
	words, err := scanPracticeWords(rows, sessionID)
	if err != nil || !onlyErrors {
		return words, err
	}

	attempts, err := r.attempts(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	missed := domain.MissedLastAttempt(attempts)

	var failed []domain.PracticeWord
	for _, w := range words {
		if missed[w.WordID] {
			failed = append(failed, w)
		}
	}
	return failed, nil
}

func (r *SessionRepo) attempts(ctx context.Context, sessionID int64) ([]domain.Attempt, error) {
	query := `
		SELECT id, word_id, writing_correct, meaning_correct, attempted_at
		FROM session_attempts
		WHERE session_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get attempts of session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		a := domain.Attempt{SessionID: sessionID}
		if err := rows.Scan(&a.ID, &a.WordID, &a.WritingCorrect, &a.MeaningCorrect, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

// ClearAttempts removes every attempt recorded for a session
func (r *SessionRepo) ClearAttempts(ctx context.Context, sessionID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_attempts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clear attempts of session %d: %w", sessionID, err)
	}
	return nil
}

// InsertAttempt appends an attempt row
func (r *SessionRepo) InsertAttempt(ctx context.Context, a domain.Attempt) error {
	query := `
		INSERT INTO session_attempts (session_id, word_id, writing_correct, meaning_correct)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, a.SessionID, a.WordID, a.WritingCorrect, a.MeaningCorrect)
	if err != nil {
		return fmt.Errorf("insert attempt for session %d word %d: %w", a.SessionID, a.WordID, translateError(err))
	}
	return nil
}

// Counts returns the number of linked words, live attempts and fully-correct attempts of a session
func (r *SessionRepo) Counts(ctx context.Context, sessionID int64) (words, attempts, correct int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM session_words WHERE session_id = $1),
			(SELECT COUNT(*) FROM session_attempts WHERE session_id = $1),
			(SELECT COUNT(*) FROM session_attempts
				WHERE session_id = $1 AND writing_correct AND meaning_correct)
	`
	if err = r.db.QueryRowContext(ctx, query, sessionID).Scan(&words, &attempts, &correct); err != nil {
		return 0, 0, 0, fmt.Errorf("count session %d: %w", sessionID, err)
	}
	return words, attempts, correct, nil
}

// Latest returns the id of the most recently created session
func (r *SessionRepo) Latest(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM sessions ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("get latest session: %w", err)
	}
	return id, nil
}

func scanPracticeWords(rows *sql.Rows, sessionID int64) ([]domain.PracticeWord, error) {
	defer rows.Close()

	var words []domain.PracticeWord
	for rows.Next() {
		w := domain.PracticeWord{SessionID: sessionID}
		if err := rows.Scan(&w.WordID, &w.Word, &w.Meaning, &w.HasAudio[0], &w.HasAudio[1], &w.HasAudio[2]); err != nil {
			return nil, fmt.Errorf("scan session word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session words: %w", err)
	}
	return words, nil
}
