package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/aidar/task-tracker/internal/config"
	"github.com/aidar/task-tracker/internal/repository/postgres"
	"github.com/aidar/task-tracker/internal/service"
)

func runCreateUser(ctx context.Context, logger *slog.Logger, args []string) error {
	var (
		username      string
		isAdmin       bool
		passwordStdin bool
	)

	flagSet := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	flagSet.StringVarP(&username, "username", "u", "", "login name of the new user")
	flagSet.BoolVar(&isAdmin, "admin", false, "grant the site admin role")
	flagSet.BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if username == "" && flagSet.NArg() > 0 {
		username = flagSet.Arg(0)
	}
	if username == "" {
		return fmt.Errorf("--username is required")
	}

	password, confirm, err := readPassword(passwordStdin)
	if err != nil {
		return err
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

	users := newUserService(pool, cfg)
	user, err := users.Provision(ctx, service.UserInput{
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
	}, isAdmin)
	if err != nil {
		return err
	}

	logger.Info("User created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return nil
}

// newUserService собирает UserService без Guard: Provision прав не проверяет
func newUserService(pool *pgxpool.Pool, cfg *config.ToolConfig) *service.UserService {
	return service.NewUserService(
		postgres.NewUserRepository(pool),
		postgres.NewGroupRepository(pool),
		service.NewPasswordHasher(cfg.Auth.BcryptCost),
		nil,
	)
}

// readPassword читает пароль с подтверждением из терминала без эха,
// либо одну строку из stdin (тогда подтверждение совпадает с паролем).
func readPassword(fromStdin bool) (string, string, error) {
	stdinFd := int(os.Stdin.Fd())
	if fromStdin || !term.IsTerminal(stdinFd) {
		line, err := readLine(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		return line, line, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(stdinFd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", "", fmt.Errorf("reading password confirmation: %w", err)
	}

	return string(first), string(second), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
