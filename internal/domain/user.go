package domain

import "time"

// User представляет учетную запись пользователя
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Хеш bcrypt, наружу не отдается
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Member представляет участника группы (используется в списках и фильтрах)
type Member struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Caller представляет аутентифицированного пользователя, выполняющего запрос.
// Нулевое значение означает отсутствие аутентификации.
type Caller struct {
	UserID  int64
	IsAdmin bool
}

// IsAuthenticated возвращает true если запрос выполнен от имени пользователя
func (c Caller) IsAuthenticated() bool {
	return c.UserID != 0
}
