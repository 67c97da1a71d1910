package service

import (
	"context"

	"github.com/aidar/task-tracker/internal/authz"
	"github.com/aidar/task-tracker/internal/board"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
)

// BoardService loads what the board needs and hands it to board.Build
type BoardService struct {
	taskRepo  repository.TaskRepository
	groupRepo repository.GroupRepository
	guard     *Guard
}

// NewBoardService creates a new BoardService
func NewBoardService(taskRepo repository.TaskRepository, groupRepo repository.GroupRepository, guard *Guard) *BoardService {
	return &BoardService{
		taskRepo:  taskRepo,
		groupRepo: groupRepo,
		guard:     guard,
	}
}

// Build returns the caller's task board
func (s *BoardService) Build(ctx context.Context, caller domain.Caller, requested board.Filter) (*board.Board, error) {
	subject, groups, err := s.guard.Subject(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, subject, authz.ActionViewTasks, authz.Resource{}); err != nil {
		return nil, err
	}

	in := board.Input{
		Groups:    groups,
		Requested: requested,
	}

	groupIDs := subject.GroupIDs()
	if len(groupIDs) == 0 {
		return board.Build(in), nil
	}

	// Narrow the query with the filter Build would apply anyway
	applied := board.Resolve(groupIDs, requested)
	filter := domain.TaskFilter{GroupIDs: groupIDs, OwnerID: applied.UserID}
	if applied.GroupID != nil {
		filter.GroupIDs = []int64{*applied.GroupID}
	}

	in.Tasks, err = s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	in.Memberships, err = s.groupRepo.ListMemberships(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	return board.Build(in), nil
}
