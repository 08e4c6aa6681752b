package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRINCIPAL REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// PrincipalRepository resolves a login across all participant tables with a
// single union query instead of three sequential table probes. The role
// discriminator comes back as a column.
type PrincipalRepository struct {
	conn *Connection
}

// NewPrincipalRepository creates a new PrincipalRepository.
func NewPrincipalRepository(conn *Connection) *PrincipalRepository {
	return &PrincipalRepository{conn: conn}
}

// GetByLogin finds a participant of any role by login. A student that has
// not finished bot registration has a NULL password; it comes back as an
// empty hash, which no password can verify against.
func (r *PrincipalRepository) GetByLogin(ctx context.Context, login string) (*records.Principal, error) {
	query := `
		SELECT id, login, password, 'admin' AS role,
		       '' AS first_name, '' AS last_name, '' AS patronymic
		FROM admins WHERE login = $1
		UNION ALL
		SELECT id, login, password, 'curator',
		       first_name, last_name, patronymic
		FROM curators WHERE login = $1
		UNION ALL
		SELECT id, login, COALESCE(password, ''), 'student',
		       first_name, last_name, patronymic
		FROM students WHERE login = $1
		LIMIT 1
	`

	var p records.Principal
	err := r.conn.QueryRow(ctx, query, login).Scan(
		&p.ID,
		&p.Login,
		&p.PasswordHash,
		&p.Role,
		&p.Name.FirstName,
		&p.Name.LastName,
		&p.Name.Patronymic,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	return &p, nil
}
