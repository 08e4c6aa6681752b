package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// AdminRepository implements records.AdminRepository for PostgreSQL.
type AdminRepository struct {
	conn *Connection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(conn *Connection) *AdminRepository {
	return &AdminRepository{conn: conn}
}

// Create inserts a new admin. A duplicate login maps to records.ErrLoginTaken.
func (r *AdminRepository) Create(ctx context.Context, a *records.Admin) error {
	query := `
		INSERT INTO admins (login, password)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query, a.Login, a.PasswordHash).Scan(&a.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return records.ErrLoginTaken
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetByLogin returns an admin by login.
func (r *AdminRepository) GetByLogin(ctx context.Context, login string) (*records.Admin, error) {
	query := `SELECT id, login, password FROM admins WHERE login = $1`

	var a records.Admin
	err := r.conn.QueryRow(ctx, query, login).Scan(&a.ID, &a.Login, &a.PasswordHash)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}
