package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kakitori/internal/domain"
)

var audioColumns = [domain.VoiceCount]string{"audio1", "audio2", "audio3"}

// WordRepo implements repository.WordRepository
type WordRepo struct {
	db *sql.DB
}

// NewWordRepo creates a new word repository
func NewWordRepo(db *sql.DB) *WordRepo {
	return &WordRepo{db: db}
}

// Exists reports whether a word with the given surface form is saved
func (r *WordRepo) Exists(ctx context.Context, word string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM words WHERE word = $1)`
	if err := r.db.QueryRowContext(ctx, query, word).Scan(&exists); err != nil {
		return false, fmt.Errorf("check word exists: %w", err)
	}
	return exists, nil
}

// Count returns the number of saved words
func (r *WordRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return count, nil
}

// Insert saves a word with its audio clips and returns the new id
func (r *WordRepo) Insert(ctx context.Context, w domain.Word) (int, error) {
	query := `
		INSERT INTO words (kanji, level, word, meaning, audio1, audio2, audio3)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int
	err := r.db.QueryRowContext(ctx, query,
		w.Kanji, w.Level, w.Word, w.Meaning,
		nullBytes(w.Audio[0]), nullBytes(w.Audio[1]), nullBytes(w.Audio[2]),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert word %q: %w", w.Word, translateError(err))
	}
	return id, nil
}

// Get returns a word including its audio clips
func (r *WordRepo) Get(ctx context.Context, id int) (*domain.Word, error) {
	var w domain.Word
	query := `
		SELECT id, word, kanji, level, meaning, audio1, audio2, audio3, created_at
		FROM words
		WHERE id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.Word, &w.Kanji, &w.Level, &w.Meaning,
		&w.Audio[0], &w.Audio[1], &w.Audio[2], &w.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get word %d: %w", id, err)
	}

	w.HasAudio = w.Audio.Present()
	return &w, nil
}

// List returns a page of words, newest first, and the total number of matches.
// A non-empty search matches word, meaning or kanji case-insensitively.
func (r *WordRepo) List(ctx context.Context, limit, offset int, search string) ([]domain.Word, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		where = "WHERE word ILIKE $1 OR meaning ILIKE $1 OR kanji ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM words " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count words: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, word, kanji, level, meaning,
			audio1 IS NOT NULL, audio2 IS NOT NULL, audio3 IS NOT NULL, created_at
		FROM words
		%s
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		var w domain.Word
		if err := rows.Scan(
			&w.ID, &w.Word, &w.Kanji, &w.Level, &w.Meaning,
			&w.HasAudio[0], &w.HasAudio[1], &w.HasAudio[2], &w.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate words: %w", err)
	}

	return words, total, nil
}

// Update changes the editable text fields of a word; audio is left untouched
func (r *WordRepo) Update(ctx context.Context, id int, kanji, level, meaning string) error {
	query := `
		UPDATE words
		SET kanji = $1, level = $2, meaning = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, kanji, level, meaning, id)
	if err != nil {
		return fmt.Errorf("update word %d: %w", id, err)
	}
	return requireAffected(res)
}

// UpdateAudio replaces all three audio clips of a word
func (r *WordRepo) UpdateAudio(ctx context.Context, id int, audio domain.AudioSet) error {
	query := `
		UPDATE words
		SET audio1 = $1, audio2 = $2, audio3 = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, nullBytes(audio[0]), nullBytes(audio[1]), nullBytes(audio[2]), id)
	if err != nil {
		return fmt.Errorf("update audio of word %d: %w", id, err)
	}
	return requireAffected(res)
}

// Delete removes a word together with its attempts and session links in one transaction
func (r *WordRepo) Delete(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var found int
		err := tx.QueryRowContext(ctx, `SELECT id FROM words WHERE id = $1 FOR UPDATE`, id).Scan(&found)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock word %d: %w", id, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM session_attempts WHERE word_id = $1`, id); err != nil {
			return fmt.Errorf("delete attempts of word %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_words WHERE word_id = $1`, id); err != nil {
			return fmt.Errorf("delete session links of word %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM words WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete word %d: %w", id, err)
		}
		return nil
	})
}

// GetAudio returns clip n (1-based) of a word; a missing clip yields nil without error
func (r *WordRepo) GetAudio(ctx context.Context, id int, n int) ([]byte, error) {
	if n < 1 || n > domain.VoiceCount {
		return nil, domain.ErrInvalidAudioIndex
	}

	var audio []byte
	query := fmt.Sprintf(`SELECT %s FROM words WHERE id = $1`, audioColumns[n-1])
	err := r.db.QueryRowContext(ctx, query, id).Scan(&audio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audio %d of word %d: %w", n, id, err)
	}
	return audio, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
