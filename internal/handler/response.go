package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aidar/task-tracker/internal/board"
	"github.com/aidar/task-tracker/internal/domain"
)

// RespondWithJSON отправляет JSON ответ с указанным статус кодом
func RespondWithJSON(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	render.Status(r, statusCode)
	render.JSON(w, r, data)
}

// pathID извлекает положительный числовой идентификатор из параметра пути
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// queryID извлекает необязательный числовой параметр запроса.
// Пустой или некорректный параметр означает отсутствие фильтра.
func queryID(r *http.Request, name string) *int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// TaskResponse представляет задачу в ответе API
type TaskResponse struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	OwnerName   string    `json:"owner_name,omitempty"`
	GroupID     int64     `json:"group_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func newTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Date:        task.Date.Format(domain.DateLayout),
		Description: task.Description,
		OwnerID:     task.OwnerID,
		OwnerName:   task.OwnerName,
		GroupID:     task.GroupID,
		CreatedAt:   task.CreatedAt,
	}
}

// PeriodResponse представляет задачи одного месяца
type PeriodResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Label string         `json:"label"`
	Tasks []TaskResponse `json:"tasks"`
}

// BoardResponse представляет список задач с группировкой по месяцам
type BoardResponse struct {
	Periods         []PeriodResponse `json:"periods"`
	Total           int              `json:"total"`
	Members         []domain.Member  `json:"members"`
	Groups          []domain.Group   `json:"groups"`
	SelectedGroupID *int64           `json:"selected_group_id"`
	SelectedUserID  *int64           `json:"selected_user_id"`
}

func newBoardResponse(b *board.Board) BoardResponse {
	periods := make([]PeriodResponse, 0, len(b.Periods))
	for _, p := range b.Periods {
		tasks := make([]TaskResponse, 0, len(p.Tasks))
		for i := range p.Tasks {
			tasks = append(tasks, newTaskResponse(&p.Tasks[i]))
		}
		periods = append(periods, PeriodResponse{
			Year:  p.Year,
			Month: int(p.Month),
			Label: p.Label,
			Tasks: tasks,
		})
	}

	groups := b.Groups
	if groups == nil {
		groups = []domain.Group{}
	}

	return BoardResponse{
		Periods:         periods,
		Total:           b.Total,
		Members:         b.Members,
		Groups:          groups,
		SelectedGroupID: b.Applied.GroupID,
		SelectedUserID:  b.Applied.UserID,
	}
}
