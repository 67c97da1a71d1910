package domain

import "time"

// Group представляет группу задач с единственным администратором
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AdminID     int64     `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// GroupWithMembers представляет группу вместе с текущим составом участников
type GroupWithMembers struct {
	Group
	Members []Member `json:"members"`
}

// Membership представляет связь "пользователь - группа" из таблицы участников
type Membership struct {
	GroupID  int64
	UserID   int64
	Username string
}

// MembershipChange описывает результат добавления или удаления участника.
// Changed == false означает информационный no-op, а не ошибку.
type MembershipChange struct {
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}
