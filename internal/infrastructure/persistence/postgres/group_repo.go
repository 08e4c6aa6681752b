package postgres

import (
	"context"
	"fmt"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// GROUP REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// GroupRepository implements records.GroupRepository for PostgreSQL.
type GroupRepository struct {
	conn *Connection
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(conn *Connection) *GroupRepository {
	return &GroupRepository{conn: conn}
}

// Create inserts a new group.
func (r *GroupRepository) Create(ctx context.Context, g *records.Group) error {
	query := `
		INSERT INTO groups (name, curator_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query, g.Name, g.CuratorID).Scan(&g.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return records.ErrCuratorNotFound
		}
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// Update rewrites the group's name and owner.
func (r *GroupRepository) Update(ctx context.Context, g *records.Group) error {
	query := `UPDATE groups SET name = $2, curator_id = $3 WHERE id = $1`

	tag, err := r.conn.Exec(ctx, query, g.ID, g.Name, g.CuratorID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return records.ErrCuratorNotFound
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrGroupNotFound
	}
	return nil
}

// Delete removes a group; its students and exams go with it via cascades.
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return records.ErrGroupNotFound
	}
	return nil
}

// List returns groups with student counts. A curator scope folds into the
// WHERE clause so the restriction cannot be bypassed in code above.
func (r *GroupRepository) List(ctx context.Context, scope records.Scope) ([]records.GroupInfo, error) {
	query := `
		SELECT g.id, g.name, g.curator_id, COUNT(s.id)
		FROM groups g
		LEFT JOIN students s ON s.group_id = g.id
		WHERE ($1::bigint IS NULL OR g.curator_id = $1)
		GROUP BY g.id
		ORDER BY g.name
	`

	rows, err := r.conn.Query(ctx, query, scopeOwner(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []records.GroupInfo
	for rows.Next() {
		var info records.GroupInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CuratorID, &info.StudentsCount); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, info)
	}
	return groups, rows.Err()
}

// GetByID returns a group by ID.
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*records.Group, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByName returns a group by its exact name.
func (r *GroupRepository) GetByName(ctx context.Context, name string) (*records.Group, error) {
	return r.getOne(ctx, `WHERE name = $1`, name)
}

func (r *GroupRepository) getOne(ctx context.Context, where string, args ...interface{}) (*records.Group, error) {
	query := `SELECT id, name, curator_id FROM groups ` + where

	var g records.Group
	err := r.conn.QueryRow(ctx, query, args...).Scan(&g.ID, &g.Name, &g.CuratorID)
	if err != nil {
		if IsNoRows(err) {
			return nil, records.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &g, nil
}

// scopeOwner converts a scope to a nullable owner filter: nil disables the
// predicate, a curator ID narrows every list query to their records.
func scopeOwner(scope records.Scope) *int64 {
	if !scope.Restricted() {
		return nil
	}
	id := scope.PrincipalID
	return &id
}
