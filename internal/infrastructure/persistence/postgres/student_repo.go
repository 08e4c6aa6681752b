package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements records.StudentRepository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentInfoColumns = `
	s.id, s.login, s.password, s.first_name, s.last_name, s.patronymic,
	s.date_of_birth, s.telephone, s.mail, s.snils, s.group_id, s.telegram_id,
	s.verified,
	g.name, c.first_name, c.last_name, c.patronymic, t.telegram_id
`

const studentInfoJoins = `
	FROM students s
	JOIN groups g ON g.id = s.group_id
	JOIN curators c ON c.id = g.curator_id
	LEFT JOIN telegram t ON t.id = s.telegram_id
`

// Create inserts a new student. A duplicate login maps to records.ErrLoginTaken.
func (r *StudentRepository) Create(ctx context.Context, s *records.Student) error {
	query := `
		INSERT INTO students (
			login, password, first_name, last_name, patronymic,
			date_of_birth, telephone, mail, snils, group_id, verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		s.Login,
		s.PasswordHash,
		s.Name.FirstName,
		s.Name.LastName,
		s.Name.Patronymic,
		s.DateOfBirth,
		s.Telephone,
		s.Mail,
		s.Snils,
		s.GroupID,
		s.Verified,
	).Scan(&s.ID)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return records.ErrLoginTaken
		case IsForeignKeyViolation(err):
			return records.ErrGroupNotFound
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// Update rewrites the student's mutable fields. Credentials and chat
// binding are written only through SetCredentials.
func (r *StudentRepository) Update(ctx context.Context, s *records.Student) error {
	query := `
		UPDATE students
		SET first_name = $2, last_name = $3, patronymic = $4,
		    date_of_birth = $5, telephone = $6, mail = $7, snils = $8,
		    group_id = $9
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name.FirstName,
		s.Name.LastName,
		s.Name.Patronymic,
		s.DateOfBirth,
		s.Telephone,
		s.Mail,
		s.Snils,
		s.GroupID,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return records.ErrGroupNotFound
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student; their marks go with them via cascades.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrStudentNotFound
	}
	return nil
}

// List returns students in the caller's scope, joined with group and
// curator data.
func (r *StudentRepository) List(ctx context.Context, scope records.Scope) ([]records.StudentInfo, error) {
	query := `SELECT ` + studentInfoColumns + studentInfoJoins + `
		WHERE ($1::bigint IS NULL OR g.curator_id = $1)
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.conn.Query(ctx, query, scopeOwner(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return scanStudentInfos(rows)
}

// ListByGroup returns the students of one group.
func (r *StudentRepository) ListByGroup(ctx context.Context, groupID int64) ([]records.StudentInfo, error) {
	query := `SELECT ` + studentInfoColumns + studentInfoJoins + `
		WHERE s.group_id = $1
		ORDER BY s.last_name, s.first_name
	`

	rows, err := r.conn.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students by group: %w", err)
	}
	defer rows.Close()

	return scanStudentInfos(rows)
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*records.Student, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByLogin returns a student by login together with group and curator data.
func (r *StudentRepository) GetByLogin(ctx context.Context, login string) (*records.StudentInfo, error) {
	query := `SELECT ` + studentInfoColumns + studentInfoJoins + `WHERE s.login = $1`

	row := r.conn.QueryRow(ctx, query, login)
	info, err := scanStudentInfo(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student by login: %w", err)
	}
	return info, nil
}

// GetByFullName finds a student by full name, case-insensitively.
func (r *StudentRepository) GetByFullName(ctx context.Context, name records.FullName) (*records.Student, error) {
	return r.getOne(ctx,
		`WHERE LOWER(last_name) = LOWER($1)
		   AND LOWER(first_name) = LOWER($2)
		   AND LOWER(patronymic) = LOWER($3)`,
		name.LastName, name.FirstName, name.Patronymic,
	)
}

// GetByShortName finds a student by last and first name, case-insensitively
// (mark sheet import rows carry no patronymic).
func (r *StudentRepository) GetByShortName(ctx context.Context, lastName, firstName string) (*records.Student, error) {
	return r.getOne(ctx,
		`WHERE LOWER(last_name) = LOWER($1)
		   AND LOWER(first_name) = LOWER($2)`,
		lastName, firstName,
	)
}

// ExistsByName reports whether the group already has a student with this
// full name.
func (r *StudentRepository) ExistsByName(ctx context.Context, name records.FullName, groupID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM students
			WHERE last_name = $1 AND first_name = $2 AND patronymic = $3
			  AND group_id = $4
		)
	`

	var exists bool
	err := r.conn.QueryRow(ctx, query,
		name.LastName, name.FirstName, name.Patronymic, groupID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// SetCredentials stores the password hash and chat handle written by the
// bot registration flow and marks the student as verified.
func (r *StudentRepository) SetCredentials(ctx context.Context, id int64, passwordHash string, handleID int64) error {
	query := `
		UPDATE students
		SET password = $2, telegram_id = $3, verified = TRUE
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query, id, passwordHash, handleID)
	if err != nil {
		return fmt.Errorf("failed to set student credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrStudentNotFound
	}
	return nil
}

// ChatID returns the external chat identifier of a student's bound handle,
// or records.ErrHandleNotFound when no chat is bound.
func (r *StudentRepository) ChatID(ctx context.Context, studentID int64) (int64, error) {
	query := `
		SELECT t.telegram_id
		FROM students s
		JOIN telegram t ON t.id = s.telegram_id
		WHERE s.id = $1
	`

	var chatID int64
	err := r.conn.QueryRow(ctx, query, studentID).Scan(&chatID)
	if err != nil {
		if IsNoRows(err) {
			return 0, records.ErrHandleNotFound
		}
		return 0, fmt.Errorf("failed to get student chat id: %w", err)
	}
	return chatID, nil
}

func (r *StudentRepository) getOne(ctx context.Context, where string, args ...interface{}) (*records.Student, error) {
	query := `
		SELECT id, login, password, first_name, last_name, patronymic,
		       date_of_birth, telephone, mail, snils, group_id, telegram_id,
		       verified
		FROM students ` + where

	var s records.Student
	err := r.conn.QueryRow(ctx, query, args...).Scan(
		&s.ID,
		&s.Login,
		&s.PasswordHash,
		&s.Name.FirstName,
		&s.Name.LastName,
		&s.Name.Patronymic,
		&s.DateOfBirth,
		&s.Telephone,
		&s.Mail,
		&s.Snils,
		&s.GroupID,
		&s.HandleID,
		&s.Verified,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &s, nil
}

func scanStudentInfo(row pgx.Row) (*records.StudentInfo, error) {
	var info records.StudentInfo
	err := row.Scan(
		&info.ID,
		&info.Login,
		&info.PasswordHash,
		&info.Name.FirstName,
		&info.Name.LastName,
		&info.Name.Patronymic,
		&info.DateOfBirth,
		&info.Telephone,
		&info.Mail,
		&info.Snils,
		&info.GroupID,
		&info.HandleID,
		&info.Verified,
		&info.GroupName,
		&info.CuratorName.FirstName,
		&info.CuratorName.LastName,
		&info.CuratorName.Patronymic,
		&info.ChatID,
	)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func scanStudentInfos(rows pgx.Rows) ([]records.StudentInfo, error) {
	var students []records.StudentInfo
	for rows.Next() {
		info, err := scanStudentInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, *info)
	}
	return students, rows.Err()
}
