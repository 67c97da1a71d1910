package service

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/aidar/task-tracker/internal/domain"
)

// memStore is an in-memory backing for the repository fakes. It mirrors the
// cascades of the SQL schema.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*domain.User
	groups  map[int64]*domain.Group
	members map[int64]map[int64]bool
	tasks   map[int64]*domain.Task
	revoked map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int64]*domain.User),
		groups:  make(map[int64]*domain.Group),
		members: make(map[int64]map[int64]bool),
		tasks:   make(map[int64]*domain.Task),
		revoked: make(map[string]time.Duration),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// helpers for fixtures

func (s *memStore) addUser(username string, isAdmin bool) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{ID: s.id(), Username: username, IsAdmin: isAdmin, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addGroup(name string, adminID int64, memberIDs ...int64) *domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := &domain.Group{ID: s.id(), Name: name, AdminID: adminID, CreatedAt: time.Now()}
	s.groups[g.ID] = g
	s.members[g.ID] = make(map[int64]bool)
	for _, id := range memberIDs {
		s.members[g.ID][id] = true
	}
	return g
}

func (s *memStore) addTask(date string, ownerID, groupID int64, description string) *domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := time.Parse(domain.DateLayout, date)
	t := &domain.Task{ID: s.id(), Date: d, Description: description, OwnerID: ownerID, GroupID: groupID}
	s.tasks[t.ID] = t
	return t
}

func (s *memStore) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// users

type fakeUserRepo struct{ s *memStore }

func (r fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = time.Now()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r fakeUserRepo) GetByID(_ context.Context, userID int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r fakeUserRepo) list(keep func(*domain.User) bool) []*domain.User {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []*domain.User
	for _, u := range r.s.users {
		if keep(u) {
			cp := *u
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (r fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	return r.list(func(*domain.User) bool { return true }), nil
}

func (r fakeUserRepo) ListNonAdmins(_ context.Context) ([]*domain.User, error) {
	return r.list(func(u *domain.User) bool { return !u.IsAdmin }), nil
}

func (r fakeUserRepo) Delete(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, g := range r.s.groups {
		if g.AdminID == userID {
			return domain.ErrAdminOwnsGroups
		}
	}
	delete(r.s.users, userID)
	for _, m := range r.s.members {
		delete(m, userID)
	}
	for id, t := range r.s.tasks {
		if t.OwnerID == userID {
			delete(r.s.tasks, id)
		}
	}
	return nil
}

// groups

type fakeGroupRepo struct{ s *memStore }

func (r fakeGroupRepo) Create(_ context.Context, group *domain.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	group.ID = r.s.id()
	group.CreatedAt = time.Now()
	cp := *group
	r.s.groups[group.ID] = &cp
	r.s.members[group.ID] = make(map[int64]bool)
	return nil
}

func (r fakeGroupRepo) GetByID(_ context.Context, groupID int64) (*domain.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[groupID]
	if !ok {
		return nil, domain.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (r fakeGroupRepo) Update(_ context.Context, group *domain.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[group.ID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	g.Name = group.Name
	g.Description = group.Description
	return nil
}

func (r fakeGroupRepo) Delete(_ context.Context, groupID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.groups[groupID]; !ok {
		return domain.ErrGroupNotFound
	}
	delete(r.s.groups, groupID)
	delete(r.s.members, groupID)
	for id, t := range r.s.tasks {
		if t.GroupID == groupID {
			delete(r.s.tasks, id)
		}
	}
	return nil
}

func (r fakeGroupRepo) list(keep func(*domain.Group) bool) []domain.Group {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var groups []domain.Group
	for _, g := range r.s.groups {
		if keep(g) {
			groups = append(groups, *g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups
}

func (r fakeGroupRepo) ListByAdmin(_ context.Context, adminID int64) ([]domain.Group, error) {
	return r.list(func(g *domain.Group) bool { return g.AdminID == adminID }), nil
}

func (r fakeGroupRepo) ListByMember(_ context.Context, userID int64) ([]domain.Group, error) {
	return r.list(func(g *domain.Group) bool { return r.s.members[g.ID][userID] }), nil
}

func (r fakeGroupRepo) AddMember(_ context.Context, groupID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.members[groupID]
	if !ok {
		return false, domain.ErrGroupNotFound
	}
	if m[userID] {
		return false, nil
	}
	m[userID] = true
	return true, nil
}

func (r fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := r.s.members[groupID]
	if !m[userID] {
		return false, nil
	}
	delete(m, userID)
	return true, nil
}

func (r fakeGroupRepo) ListMemberships(_ context.Context, groupIDs []int64) ([]domain.Membership, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Membership
	for _, gid := range groupIDs {
		for uid := range r.s.members[gid] {
			out = append(out, domain.Membership{GroupID: gid, UserID: uid, Username: r.s.users[uid].Username})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// tasks

type fakeTaskRepo struct{ s *memStore }

func (r fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task.ID = r.s.id()
	task.CreatedAt = time.Now()
	cp := *task
	r.s.tasks[task.ID] = &cp
	return nil
}

func (r fakeTaskRepo) withOwner(t *domain.Task) domain.Task {
	cp := *t
	if u, ok := r.s.users[t.OwnerID]; ok {
		cp.OwnerName = u.Username
	}
	return cp
}

func (r fakeTaskRepo) GetByID(_ context.Context, taskID int64) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[taskID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := r.withOwner(t)
	return &cp, nil
}

func (r fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Date = task.Date
	t.Description = task.Description
	return nil
}

func (r fakeTaskRepo) Delete(_ context.Context, taskID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, taskID)
	return nil
}

func (r fakeTaskRepo) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Task
	for _, t := range r.s.tasks {
		if !slices.Contains(filter.GroupIDs, t.GroupID) {
			continue
		}
		if filter.OwnerID != nil && t.OwnerID != *filter.OwnerID {
			continue
		}
		out = append(out, r.withOwner(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// token revocations

type fakeRevocationRepo struct{ s *memStore }

func (r fakeRevocationRepo) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.revoked[tokenID] = ttl
	return nil
}

func (r fakeRevocationRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.revoked[tokenID]
	return ok, nil
}

// fixture wires every service against one store.
type fixture struct {
	store  *memStore
	guard  *Guard
	hasher *PasswordHasher
	tasks  *TaskService
	groups *GroupService
	users  *UserService
	admin  *AdminService
	board  *BoardService
	auth   *AuthService
}

func newFixture() *fixture {
	s := newMemStore()
	userRepo := fakeUserRepo{s}
	groupRepo := fakeGroupRepo{s}
	taskRepo := fakeTaskRepo{s}
	guard := NewGuard(userRepo, groupRepo, nil)
	hasher := NewPasswordHasher(4) // bcrypt.MinCost

	return &fixture{
		store:  s,
		guard:  guard,
		hasher: hasher,
		tasks:  NewTaskService(taskRepo, guard),
		groups: NewGroupService(groupRepo, userRepo, guard),
		users:  NewUserService(userRepo, groupRepo, hasher, guard),
		admin:  NewAdminService(userRepo, groupRepo, guard),
		board:  NewBoardService(taskRepo, groupRepo, guard),
		auth:   NewAuthService(userRepo, fakeRevocationRepo{s}, hasher, "test-secret", time.Hour),
	}
}

func callerOf(u *domain.User) domain.Caller {
	return domain.Caller{UserID: u.ID, IsAdmin: u.IsAdmin}
}

func int64Ptr(v int64) *int64 { return &v }
