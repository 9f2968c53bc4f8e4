package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lexqa/internal/client/models"
	"github.com/dmitrijs2005/lexqa/internal/dbx"
)

// SQLiteRepository implements Repository on the local state database.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Replace(ctx context.Context, userID string, docs models.Collection) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("failed to clear snapshot: %w", err)
		}

		for i, d := range docs {
			meta, err := json.Marshal(d.Metadata)
			if err != nil {
				return fmt.Errorf("failed to encode metadata of %s: %w", d.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO documents (user_id, position, id, filename, status, metadata)
				VALUES (?, ?, ?, ?, ?, ?)`,
				userID, i, d.ID, d.Filename, d.Status, meta)
			if err != nil {
				return fmt.Errorf("failed to insert document %s: %w", d.ID, err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (user_id, saved_at) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET saved_at = excluded.saved_at`,
			userID, r.now().UTC())
		if err != nil {
			return fmt.Errorf("failed to mark snapshot: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Load(ctx context.Context, userID string) (models.Collection, bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM snapshots WHERE user_id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, status, metadata FROM documents
		WHERE user_id = ? ORDER BY position`, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	docs := models.Collection{}
	for rows.Next() {
		var (
			d    models.Document
			meta []byte
		)
		if err := rows.Scan(&d.ID, &d.Filename, &d.Status, &meta); err != nil {
			return nil, false, fmt.Errorf("failed to scan document row: %w", err)
		}
		if err := json.Unmarshal(meta, &d.Metadata); err != nil {
			return nil, false, fmt.Errorf("failed to decode metadata of %s: %w", d.ID, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to iterate document rows: %w", err)
	}

	return docs, true, nil
}
