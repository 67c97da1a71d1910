package repository

import (
	"context"
	"time"

	"github.com/aidar/task-tracker/internal/domain"
)

// UserRepository определяет методы для работы с данными пользователей
type UserRepository interface {
	// Create создает пользователя и заполняет ID и CreatedAt
	Create(ctx context.Context, user *domain.User) error

	// GetByID получает пользователя по ID
	GetByID(ctx context.Context, userID int64) (*domain.User, error)

	// GetByUsername получает пользователя по имени
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List возвращает всех пользователей, отсортированных по имени
	List(ctx context.Context) ([]*domain.User, error)

	// ListNonAdmins возвращает пользователей без роли администратора
	ListNonAdmins(ctx context.Context) ([]*domain.User, error)

	// Delete удаляет пользователя вместе с его задачами и членством в группах
	Delete(ctx context.Context, userID int64) error
}

// GroupRepository определяет методы для работы с группами и их участниками
type GroupRepository interface {
	// Create создает группу и заполняет ID и CreatedAt
	Create(ctx context.Context, group *domain.Group) error

	// GetByID получает группу по ID
	GetByID(ctx context.Context, groupID int64) (*domain.Group, error)

	// Update обновляет название и описание группы
	Update(ctx context.Context, group *domain.Group) error

	// Delete удаляет группу вместе с ее задачами
	Delete(ctx context.Context, groupID int64) error

	// ListByAdmin возвращает группы, которыми управляет пользователь
	ListByAdmin(ctx context.Context, adminID int64) ([]domain.Group, error)

	// ListByMember возвращает группы, в которых состоит пользователь
	ListByMember(ctx context.Context, userID int64) ([]domain.Group, error)

	// AddMember добавляет участника; false если он уже состоял в группе
	AddMember(ctx context.Context, groupID, userID int64) (bool, error)

	// RemoveMember удаляет участника; false если он не состоял в группе
	RemoveMember(ctx context.Context, groupID, userID int64) (bool, error)

	// ListMemberships возвращает участников указанных групп
	ListMemberships(ctx context.Context, groupIDs []int64) ([]domain.Membership, error)
}

// TaskRepository определяет методы для работы с задачами
type TaskRepository interface {
	// Create создает задачу и заполняет ID и CreatedAt
	Create(ctx context.Context, task *domain.Task) error

	// GetByID получает задачу по ID
	GetByID(ctx context.Context, taskID int64) (*domain.Task, error)

	// Update обновляет дату и описание задачи
	Update(ctx context.Context, task *domain.Task) error

	// Delete удаляет задачу
	Delete(ctx context.Context, taskID int64) error

	// List возвращает задачи по фильтру, упорядоченные по дате и порядку создания
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
}

// TokenRevocationRepository хранит идентификаторы отозванных JWT токенов
type TokenRevocationRepository interface {
	// Revoke помечает токен отозванным до истечения ttl
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked проверяет, был ли токен отозван
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
