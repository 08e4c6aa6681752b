package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// MarkRepository implements records.MarkRepository for PostgreSQL.
type MarkRepository struct {
	conn *Connection
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(conn *Connection) *MarkRepository {
	return &MarkRepository{conn: conn}
}

// Get returns the mark of a (student, exam) pair or records.ErrMarkNotFound.
func (r *MarkRepository) Get(ctx context.Context, studentID, examID int64) (*records.Mark, error) {
	query := `
		SELECT id, mark, exam_id, student_id
		FROM marks
		WHERE student_id = $1 AND exam_id = $2
	`

	var m records.Mark
	err := r.conn.QueryRow(ctx, query, studentID, examID).Scan(
		&m.ID, &m.Value, &m.ExamID, &m.StudentID,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to get mark: %w", err)
	}
	return &m, nil
}

// Upsert inserts or overwrites a mark. Two concurrent writes to the same
// pair resolve last-write-wins on the unique (exam_id, student_id) key.
func (r *MarkRepository) Upsert(ctx context.Context, m *records.Mark) error {
	query := `
		INSERT INTO marks (mark, exam_id, student_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (exam_id, student_id)
		DO UPDATE SET mark = EXCLUDED.mark
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query, m.Value, m.ExamID, m.StudentID).Scan(&m.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return records.ErrStudentNotFound
		}
		return fmt.Errorf("failed to upsert mark: %w", err)
	}
	return nil
}
