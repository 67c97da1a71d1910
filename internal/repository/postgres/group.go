package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidar/task-tracker/internal/domain"
)

// GroupRepository реализует repository.GroupRepository для PostgreSQL.
// Участники хранятся в таблице связей group_members, индексированной с обеих сторон.
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository создает новый экземпляр GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create создает группу и заполняет ID и CreatedAt
func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) error {
	query := `
		INSERT INTO task_groups (name, description, admin_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, group.Name, group.Description, group.AdminID).
		Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.ErrUserNotFound
		}
		return err
	}

	return nil
}

// GetByID получает группу по ID
func (r *GroupRepository) GetByID(ctx context.Context, groupID int64) (*domain.Group, error) {
	query := `
		SELECT id, name, description, admin_id, created_at
		FROM task_groups
		WHERE id = $1
	`

	var group domain.Group
	err := r.db.QueryRow(ctx, query, groupID).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.AdminID,
		&group.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	return &group, nil
}

// Update обновляет название и описание группы
func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	query := `
		UPDATE task_groups
		SET name = $1, description = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(ctx, query, group.Name, group.Description, group.ID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

// Delete удаляет группу; задачи и членство удаляются каскадно
func (r *GroupRepository) Delete(ctx context.Context, groupID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM task_groups WHERE id = $1`, groupID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}

	return nil
}

// ListByAdmin возвращает группы, которыми управляет пользователь
func (r *GroupRepository) ListByAdmin(ctx context.Context, adminID int64) ([]domain.Group, error) {
	query := `
		SELECT id, name, description, admin_id, created_at
		FROM task_groups
		WHERE admin_id = $1
		ORDER BY name, id
	`

	return r.queryGroups(ctx, query, adminID)
}

// ListByMember возвращает группы, в которых состоит пользователь
func (r *GroupRepository) ListByMember(ctx context.Context, userID int64) ([]domain.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.admin_id, g.created_at
		FROM task_groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.name, g.id
	`

	return r.queryGroups(ctx, query, userID)
}

// AddMember добавляет участника; false если он уже состоял в группе
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int64) (bool, error) {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return false, domain.ErrNotFound
		}
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

// RemoveMember удаляет участника; false если он не состоял в группе
func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID int64) (bool, error) {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, groupID, userID)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

// ListMemberships возвращает участников указанных групп
func (r *GroupRepository) ListMemberships(ctx context.Context, groupIDs []int64) ([]domain.Membership, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT gm.group_id, u.id, u.username
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ANY($1)
		ORDER BY u.username, u.id
	`

	rows, err := r.db.Query(ctx, query, groupIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.Username); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

func (r *GroupRepository) queryGroups(ctx context.Context, query string, args ...any) ([]domain.Group, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.AdminID, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}
