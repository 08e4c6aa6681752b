package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ExamRepository implements records.ExamRepository for PostgreSQL.
type ExamRepository struct {
	conn *Connection
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(conn *Connection) *ExamRepository {
	return &ExamRepository{conn: conn}
}

const examDetailsColumns = `
	e.id, e.type, e.semester, e.course, e.discipline, e.holding_date,
	e.link, e.group_id, e.curator_id,
	g.name, c.first_name, c.last_name, c.patronymic
`

const examDetailsJoins = `
	FROM exams e
	JOIN groups g ON g.id = e.group_id
	JOIN curators c ON c.id = e.curator_id
`

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, e *records.Exam) error {
	query := `
		INSERT INTO exams (type, semester, course, discipline, holding_date, link, group_id, curator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		e.Type,
		e.Semester,
		e.Course,
		e.Discipline,
		e.HoldingDate,
		e.Link,
		e.GroupID,
		e.CuratorID,
	).Scan(&e.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return records.ErrGroupNotFound
		}
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// Delete removes an exam; its marks go with it via cascades.
func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrExamNotFound
	}
	return nil
}

// List returns exams of the given type in the caller's scope.
func (r *ExamRepository) List(ctx context.Context, examType records.ExamType, scope records.Scope) ([]records.ExamDetails, error) {
	query := `SELECT ` + examDetailsColumns + examDetailsJoins + `
		WHERE e.type = $1
		  AND ($2::bigint IS NULL OR e.curator_id = $2)
		ORDER BY e.holding_date, e.discipline
	`

	rows, err := r.conn.Query(ctx, query, examType, scopeOwner(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	defer rows.Close()

	return scanExamDetailsRows(rows)
}

// GetDetails returns one exam with group and curator names.
func (r *ExamRepository) GetDetails(ctx context.Context, id int64) (*records.ExamDetails, error) {
	query := `SELECT ` + examDetailsColumns + examDetailsJoins + `WHERE e.id = $1`

	details, err := scanExamDetails(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return details, nil
}

// UpdateLink rewrites the ticket link and returns the updated exam.
func (r *ExamRepository) UpdateLink(ctx context.Context, id int64, link *string) (*records.ExamDetails, error) {
	tag, err := r.conn.Exec(ctx, `UPDATE exams SET link = $2 WHERE id = $1`, id, link)
	if err != nil {
		return nil, fmt.Errorf("failed to update exam link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, records.ErrExamNotFound
	}
	return r.GetDetails(ctx, id)
}

// ListUpcoming returns exams held on fromDate or later. The text date layout
// sorts lexicographically, so a string comparison is a date comparison.
func (r *ExamRepository) ListUpcoming(ctx context.Context, fromDate string) ([]records.ExamDetails, error) {
	query := `SELECT ` + examDetailsColumns + examDetailsJoins + `
		WHERE e.holding_date >= $1
		ORDER BY e.holding_date
	`

	rows, err := r.conn.Query(ctx, query, fromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming exams: %w", err)
	}
	defer rows.Close()

	return scanExamDetailsRows(rows)
}

// RecipientChatIDs returns the chat IDs of the exam group's students that
// have a bound handle. A group with no bound students yields an empty slice.
func (r *ExamRepository) RecipientChatIDs(ctx context.Context, examID int64) ([]int64, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exams WHERE id = $1)`, examID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam existence: %w", err)
	}
	if !exists {
		return nil, records.ErrExamNotFound
	}

	query := `
		SELECT t.telegram_id
		FROM exams e
		JOIN students s ON s.group_id = e.group_id
		JOIN telegram t ON t.id = s.telegram_id
		WHERE e.id = $1
		ORDER BY t.telegram_id
	`

	rows, err := r.conn.Query(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam recipients: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, err
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs, rows.Err()
}

// Marks returns the exam's mark sheet: every student of the exam's group
// with their mark, unset marks included.
func (r *ExamRepository) Marks(ctx context.Context, examID int64) (*records.ExamMarks, error) {
	exam, err := r.GetDetails(ctx, examID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT s.id, s.first_name, s.last_name, s.patronymic, m.mark
		FROM students s
		LEFT JOIN marks m ON m.student_id = s.id AND m.exam_id = $1
		WHERE s.group_id = $2
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.conn.Query(ctx, query, examID, exam.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam marks: %w", err)
	}
	defer rows.Close()

	sheet := &records.ExamMarks{
		ExamID:      exam.ID,
		Discipline:  exam.Discipline,
		HoldingDate: exam.HoldingDate,
	}
	for rows.Next() {
		var sm records.StudentMark
		if err := rows.Scan(
			&sm.StudentID,
			&sm.Name.FirstName,
			&sm.Name.LastName,
			&sm.Name.Patronymic,
			&sm.Value,
		); err != nil {
			return nil, fmt.Errorf("failed to scan mark row: %w", err)
		}
		sheet.Students = append(sheet.Students, sm)
	}
	return sheet, rows.Err()
}

// FullRecord assembles the flat exam record consumed by the document
// generator.
func (r *ExamRepository) FullRecord(ctx context.Context, examID int64) (*records.ExamRecord, error) {
	exam, err := r.GetDetails(ctx, examID)
	if err != nil {
		return nil, err
	}

	record := &records.ExamRecord{
		Group:      exam.GroupName,
		Course:     fmt.Sprintf("%d", exam.Course),
		Semester:   fmt.Sprintf("%d", exam.Semester),
		Discipline: exam.Discipline,
		ExamDate:   exam.HoldingDate,
		Teacher:    exam.CuratorName.Display(),
		DocType:    exam.Type.String(),
	}

	query := `
		SELECT s.first_name, s.last_name, s.patronymic, m.mark
		FROM marks m
		JOIN students s ON s.id = m.student_id
		WHERE m.exam_id = $1
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.conn.Query(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exam record rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name records.FullName
		var value *int16
		if err := rows.Scan(&name.FirstName, &name.LastName, &name.Patronymic, &value); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}

		grade := "-"
		if value != nil {
			grade = records.DisplayMarkValue(value)
		}
		record.Students = append(record.Students, records.ExamRecordRow{
			Name:  name.Display(),
			Grade: grade,
		})
	}
	return record, rows.Err()
}

func scanExamDetails(row pgx.Row) (*records.ExamDetails, error) {
	var d records.ExamDetails
	err := row.Scan(
		&d.ID,
		&d.Type,
		&d.Semester,
		&d.Course,
		&d.Discipline,
		&d.HoldingDate,
		&d.Link,
		&d.GroupID,
		&d.CuratorID,
		&d.GroupName,
		&d.CuratorName.FirstName,
		&d.CuratorName.LastName,
		&d.CuratorName.Patronymic,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanExamDetailsRows(rows pgx.Rows) ([]records.ExamDetails, error) {
	var exams []records.ExamDetails
	for rows.Next() {
		details, err := scanExamDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam row: %w", err)
		}
		exams = append(exams, *details)
	}
	return exams, rows.Err()
}
