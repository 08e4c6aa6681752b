package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// CURATOR REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// CuratorRepository implements records.CuratorRepository for PostgreSQL.
type CuratorRepository struct {
	conn *Connection
}

// NewCuratorRepository creates a new CuratorRepository.
func NewCuratorRepository(conn *Connection) *CuratorRepository {
	return &CuratorRepository{conn: conn}
}

// Create inserts a new curator. A duplicate login maps to records.ErrLoginTaken.
func (r *CuratorRepository) Create(ctx context.Context, c *records.Curator) error {
	query := `
		INSERT INTO curators (login, password, first_name, last_name, patronymic)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		c.Login,
		c.PasswordHash,
		c.Name.FirstName,
		c.Name.LastName,
		c.Name.Patronymic,
	).Scan(&c.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return records.ErrLoginTaken
		}
		return fmt.Errorf("failed to create curator: %w", err)
	}
	return nil
}

// Update rewrites the curator's mutable fields.
func (r *CuratorRepository) Update(ctx context.Context, c *records.Curator) error {
	query := `
		UPDATE curators
		SET login = $2, first_name = $3, last_name = $4, patronymic = $5
		WHERE id = $1
	`

	tag, err := r.conn.Exec(ctx, query,
		c.ID,
		c.Login,
		c.Name.FirstName,
		c.Name.LastName,
		c.Name.Patronymic,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return records.ErrLoginTaken
		}
		return fmt.Errorf("failed to update curator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrCuratorNotFound
	}
	return nil
}

// Delete removes a curator; their groups, students and exams go with them
// via schema cascades.
func (r *CuratorRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM curators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete curator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrCuratorNotFound
	}
	return nil
}

// List returns all curators with the names of their groups.
func (r *CuratorRepository) List(ctx context.Context) ([]records.CuratorInfo, error) {
	query := `
		SELECT c.id, c.login, c.password, c.first_name, c.last_name, c.patronymic,
		       c.telegram_id,
		       COALESCE(ARRAY_AGG(g.name ORDER BY g.name) FILTER (WHERE g.id IS NOT NULL), '{}')
		FROM curators c
		LEFT JOIN groups g ON g.curator_id = c.id
		GROUP BY c.id
		ORDER BY c.last_name, c.first_name
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list curators: %w", err)
	}
	defer rows.Close()

	var curators []records.CuratorInfo
	for rows.Next() {
		var info records.CuratorInfo
		if err := rows.Scan(
			&info.ID,
			&info.Login,
			&info.PasswordHash,
			&info.Name.FirstName,
			&info.Name.LastName,
			&info.Name.Patronymic,
			&info.HandleID,
			&info.Groups,
		); err != nil {
			return nil, fmt.Errorf("failed to scan curator row: %w", err)
		}
		curators = append(curators, info)
	}
	return curators, rows.Err()
}

// GetByID returns a curator by ID.
func (r *CuratorRepository) GetByID(ctx context.Context, id int64) (*records.Curator, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByLogin returns a curator by login.
func (r *CuratorRepository) GetByLogin(ctx context.Context, login string) (*records.Curator, error) {
	return r.getOne(ctx, `WHERE login = $1`, login)
}

// GetByFullName finds a curator by full name, case-insensitively.
func (r *CuratorRepository) GetByFullName(ctx context.Context, name records.FullName) (*records.Curator, error) {
	return r.getOne(ctx,
		`WHERE LOWER(last_name) = LOWER($1)
		   AND LOWER(first_name) = LOWER($2)
		   AND LOWER(patronymic) = LOWER($3)`,
		name.LastName, name.FirstName, name.Patronymic,
	)
}

// SetCredentials stores the password hash and chat handle written by the
// bot registration flow.
func (r *CuratorRepository) SetCredentials(ctx context.Context, id int64, passwordHash string, handleID int64) error {
	query := `UPDATE curators SET password = $2, telegram_id = $3 WHERE id = $1`

	tag, err := r.conn.Exec(ctx, query, id, passwordHash, handleID)
	if err != nil {
		return fmt.Errorf("failed to set curator credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrCuratorNotFound
	}
	return nil
}

func (r *CuratorRepository) getOne(ctx context.Context, where string, args ...interface{}) (*records.Curator, error) {
	query := `
		SELECT id, login, password, first_name, last_name, patronymic, telegram_id
		FROM curators ` + where

	var c records.Curator
	err := r.conn.QueryRow(ctx, query, args...).Scan(
		&c.ID,
		&c.Login,
		&c.PasswordHash,
		&c.Name.FirstName,
		&c.Name.LastName,
		&c.Name.Patronymic,
		&c.HandleID,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrCuratorNotFound
		}
		return nil, fmt.Errorf("failed to get curator: %w", err)
	}
	return &c, nil
}
