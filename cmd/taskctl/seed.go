package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/aidar/task-tracker/internal/config"
	"github.com/aidar/task-tracker/internal/domain"
	"github.com/aidar/task-tracker/internal/repository"
	"github.com/aidar/task-tracker/internal/repository/postgres"
	"github.com/aidar/task-tracker/internal/service"
)

// SeedFile описывает начальные данные
type SeedFile struct {
	Users  []SeedUser  `yaml:"users"`
	Groups []SeedGroup `yaml:"groups"`
}

// SeedUser описывает пользователя в файле начальных данных
type SeedUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

// SeedGroup описывает группу; Admin и Members ссылаются на имена пользователей
type SeedGroup struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Admin       string   `yaml:"admin"`
	Members     []string `yaml:"members"`
}

func runSeed(ctx context.Context, logger *slog.Logger, args []string) error {
	var path string

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVarP(&path, "file", "f", "seed.yaml", "YAML file with users, groups and memberships")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	seed, err := parseSeed(file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := config.LoadTool()
	if err != nil {
		return err
	}

	pool, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	seeder := &seeder{
		users:     newUserService(pool, cfg),
		userRepo:  postgres.NewUserRepository(pool),
		groupRepo: postgres.NewGroupRepository(pool),
		logger:    logger,
	}
	return seeder.apply(ctx, seed)
}

// parseSeed читает YAML и проверяет ссылки между разделами
func parseSeed(r io.Reader) (*SeedFile, error) {
	var seed SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	// declared хранит для каждого имени признак администратора сайта
	declared := make(map[string]bool, len(seed.Users))
	for i, u := range seed.Users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return nil, fmt.Errorf("users[%d]: username is required", i)
		}
		if _, ok := declared[name]; ok {
			return nil, fmt.Errorf("users[%d]: duplicate username %q", i, name)
		}
		declared[name] = u.Admin
	}

	for i, g := range seed.Groups {
		if err := service.ValidateGroupInput(service.GroupInput{Name: g.Name, Description: g.Description}); err != nil {
			return nil, fmt.Errorf("groups[%d]: %w", i, err)
		}
		if g.Admin == "" {
			return nil, fmt.Errorf("groups[%d]: admin is required", i)
		}
		isAdmin, ok := declared[g.Admin]
		if !ok {
			return nil, fmt.Errorf("groups[%d]: admin %q is not declared in users", i, g.Admin)
		}
		// Править и удалять группу может только администратор сайта
		if !isAdmin {
			return nil, fmt.Errorf("groups[%d]: admin %q is not a site admin", i, g.Admin)
		}
		for _, m := range g.Members {
			if _, ok := declared[m]; !ok {
				return nil, fmt.Errorf("groups[%d]: member %q is not declared in users", i, m)
			}
		}
	}

	return &seed, nil
}

// seeder применяет SeedFile. Повторный запуск не создает дубликатов:
// существующие пользователи и группы переиспользуются.
type seeder struct {
	users     *service.UserService
	userRepo  repository.UserRepository
	groupRepo repository.GroupRepository
	logger    *slog.Logger
}

func (s *seeder) apply(ctx context.Context, seed *SeedFile) error {
	ids := make(map[string]int64, len(seed.Users))

	for _, u := range seed.Users {
		username := strings.TrimSpace(u.Username)
		user, err := s.userRepo.GetByUsername(ctx, username)
		switch {
		case err == nil:
			s.logger.Info("User exists, skipping", "username", username)
		case errors.Is(err, domain.ErrUserNotFound):
			user, err = s.users.Provision(ctx, service.UserInput{
				Username:        username,
				Password:        u.Password,
				ConfirmPassword: u.Password,
			}, u.Admin)
			if err != nil {
				return fmt.Errorf("user %q: %w", username, err)
			}
			s.logger.Info("User created", "username", username, "is_admin", u.Admin)
		default:
			return err
		}
		ids[username] = user.ID
	}

	for _, g := range seed.Groups {
		group, err := s.ensureGroup(ctx, g, ids[g.Admin])
		if err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}

		for _, m := range g.Members {
			added, err := s.groupRepo.AddMember(ctx, group.ID, ids[m])
			if err != nil {
				return fmt.Errorf("group %q: member %q: %w", g.Name, m, err)
			}
			if added {
				s.logger.Info("Member added", "group", group.Name, "username", m)
			}
		}
	}

	return nil
}

func (s *seeder) ensureGroup(ctx context.Context, g SeedGroup, adminID int64) (*domain.Group, error) {
	name := strings.TrimSpace(g.Name)

	existing, err := s.groupRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == name {
			return &existing[i], nil
		}
	}

	group := &domain.Group{Name: name, Description: g.Description, AdminID: adminID}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	s.logger.Info("Group created", "group", name, "admin_id", adminID)
	return group, nil
}
