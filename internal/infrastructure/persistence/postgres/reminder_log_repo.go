package postgres

import (
	"context"
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// REMINDER LOG
// ══════════════════════════════════════════════════════════════════════════════

// ReminderLogRepository implements records.ReminderLog for PostgreSQL.
type ReminderLogRepository struct {
	conn *Connection
}

// NewReminderLogRepository creates a new ReminderLogRepository.
func NewReminderLogRepository(conn *Connection) *ReminderLogRepository {
	return &ReminderLogRepository{conn: conn}
}

// MarkSent records that the (exam, offset) reminder went out on the given
// day. Returns false when the record already existed, which makes the
// scheduler idempotent across restarts within the same day.
func (r *ReminderLogRepository) MarkSent(ctx context.Context, examID int64, dayOffset int, day string) (bool, error) {
	query := `
		INSERT INTO reminder_log (exam_id, day_offset, sent_on)
		VALUES ($1, $2, $3)
		ON CONFLICT (exam_id, day_offset, sent_on) DO NOTHING
	`

	tag, err := r.conn.Exec(ctx, query, examID, dayOffset, day)
	if err != nil {
		return false, fmt.Errorf("failed to record reminder: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
