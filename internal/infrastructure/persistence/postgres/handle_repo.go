package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHAT HANDLE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// HandleRepository implements records.HandleRepository for PostgreSQL.
type HandleRepository struct {
	conn *Connection
}

// NewHandleRepository creates a new HandleRepository.
func NewHandleRepository(conn *Connection) *HandleRepository {
	return &HandleRepository{conn: conn}
}

// GetByChatID returns the handle row bound to an external chat ID.
func (r *HandleRepository) GetByChatID(ctx context.Context, chatID int64) (*records.ChatHandle, error) {
	query := `SELECT id, telegram_id FROM telegram WHERE telegram_id = $1`

	var h records.ChatHandle
	err := r.conn.QueryRow(ctx, query, chatID).Scan(&h.ID, &h.ChatID)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrHandleNotFound
		}
		return nil, fmt.Errorf("failed to get chat handle: %w", err)
	}
	return &h, nil
}

// Create inserts a handle row for a chat ID. A concurrent insert of the
// same chat resolves to the existing row.
func (r *HandleRepository) Create(ctx context.Context, chatID int64) (*records.ChatHandle, error) {
	query := `
		INSERT INTO telegram (telegram_id)
		VALUES ($1)
		ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = EXCLUDED.telegram_id
		RETURNING id, telegram_id
	`

	var h records.ChatHandle
	err := r.conn.QueryRow(ctx, query, chatID).Scan(&h.ID, &h.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat handle: %w", err)
	}
	return &h, nil
}

// Exists reports whether the chat ID is already bound to a participant.
func (r *HandleRepository) Exists(ctx context.Context, chatID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM telegram WHERE telegram_id = $1)`

	var exists bool
	if err := r.conn.QueryRow(ctx, query, chatID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check chat handle: %w", err)
	}
	return exists, nil
}
