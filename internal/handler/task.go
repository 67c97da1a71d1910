package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aidar/task-tracker/internal/board"
	"github.com/aidar/task-tracker/internal/middleware"
	"github.com/aidar/task-tracker/internal/service"
)

// TaskHandler обрабатывает эндпоинты задач
type TaskHandler struct {
	taskService  *service.TaskService
	boardService *service.BoardService
}

// NewTaskHandler создает новый TaskHandler
func NewTaskHandler(taskService *service.TaskService, boardService *service.BoardService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		boardService: boardService,
	}
}

// TaskRequest представляет тело запроса на создание или изменение задачи
type TaskRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	GroupID     int64  `json:"group_id"`
}

func (req TaskRequest) input() service.TaskInput {
	return service.TaskInput{
		Date:        req.Date,
		Description: req.Description,
		GroupID:     req.GroupID,
	}
}

// List обрабатывает GET /tasks?group_id=...&user_id=...
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := board.Filter{
		GroupID: queryID(r, "group_id"),
		UserID:  queryID(r, "user_id"),
	}

	b, err := h.boardService.Build(r.Context(), middleware.GetCallerFromContext(r.Context()), filter)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newBoardResponse(b))
}

// Create обрабатывает POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), middleware.GetCallerFromContext(r.Context()), req.input())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, newTaskResponse(task))
}

// Get обрабатывает GET /tasks/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	task, err := h.taskService.Get(r.Context(), middleware.GetCallerFromContext(r.Context()), taskID)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Update обрабатывает PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	var req TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, r, "invalid request body")
		return
	}

	task, err := h.taskService.Update(r.Context(), middleware.GetCallerFromContext(r.Context()), taskID, req.input())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Delete обрабатывает DELETE /tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "id")
	if err != nil {
		respondBadRequest(w, r, err.Error())
		return
	}

	if err := h.taskService.Delete(r.Context(), middleware.GetCallerFromContext(r.Context()), taskID); err != nil {
		HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
