package service

import (
	"context"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// TaskInput carries the user-supplied task fields. GroupID is only used on create.
type TaskInput struct {
	Date        string
	Description string
	GroupID     int64
}

// TaskService handles business logic for tasks
type TaskService struct {
	taskRepo repository.TaskRepository
	guard    *Guard
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, guard *Guard) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		guard:    guard,
	}
}

// Create adds a task owned by the caller to one of the caller's groups
func (s *TaskService) Create(ctx context.Context, caller domain.Caller, in TaskInput) (*domain.Task, error) {
	subject, err := s.guard.requireAuthenticated(ctx, caller)
	if err != nil {
		return nil, err
	}

	// Validate before authorizing, as the form would
	date, err := parseTaskDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := validateTaskDescription(in.Description); err != nil {
		return nil, err
	}
	if in.GroupID == 0 {
		return nil, domain.NewValidationError("group_id", "task group is required")
	}

	// Membership comes from the caller's current groups; an unknown group
	// is indistinguishable from a foreign one.
	if err := s.guard.Check(ctx, subject, authz.ActionCreateTask, authz.Resource{GroupID: in.GroupID}); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Date:        date,
		Description: in.Description,
		OwnerID:     subject.UserID,
		GroupID:     in.GroupID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, task.ID)
}

// Get returns a task the caller is allowed to edit
func (s *TaskService) Get(ctx context.Context, caller domain.Caller, taskID int64) (*domain.Task, error) {
	_, task, err := s.authorizeTask(ctx, caller, authz.ActionEditTask, taskID)
	return task, err
}

// Update changes the date and description of a task
func (s *TaskService) Update(ctx context.Context, caller domain.Caller, taskID int64, in TaskInput) (*domain.Task, error) {
	_, task, err := s.authorizeTask(ctx, caller, authz.ActionEditTask, taskID)
	if err != nil {
		return nil, err
	}

	date, err := parseTaskDate(in.Date)
	if err != nil {
		return nil, err
	}
	if err := validateTaskDescription(in.Description); err != nil {
		return nil, err
	}

	task.Date = date
	task.Description = in.Description
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.taskRepo.GetByID(ctx, taskID)
}

// Delete removes a task
func (s *TaskService) Delete(ctx context.Context, caller domain.Caller, taskID int64) error {
	_, _, err := s.authorizeTask(ctx, caller, authz.ActionDeleteTask, taskID)
	if err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

// authorizeTask loads the task and checks action against it. Ownership is
// not re-validated against current membership of the owner.
func (s *TaskService) authorizeTask(ctx context.Context, caller domain.Caller, action authz.Action, taskID int64) (authz.Subject, *domain.Task, error) {
	subject, err := s.guard.requireAuthenticated(ctx, caller)
	if err != nil {
		return authz.Subject{}, nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return authz.Subject{}, nil, err
	}

	if err := s.guard.Check(ctx, subject, action, authz.TaskResource(task)); err != nil {
		return authz.Subject{}, nil, err
	}

	return subject, task, nil
}
