package domain

import "time"

// DateLayout формат даты задачи в API
const DateLayout = "2006-01-02"

// Task представляет задачу на конкретную дату в рамках группы
type Task struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	GroupID     int64     `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaskFilter задает условия выборки задач из хранилища
type TaskFilter struct {
	GroupIDs []int64 // Пустой список означает пустую выборку
	OwnerID  *int64  // nil - без фильтра по владельцу
}
