// Команда taskctl выполняет офлайн-провижининг: создание пользователей
// (в том числе первого администратора) и загрузку начальных данных из YAML.
// Проверки прав веб-интерфейса здесь не применяются.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/aidar/task-tracker/internal/config"
	"github.com/aidar/task-tracker/internal/repository/postgres"
)

const usage = `Usage: taskctl <command> [flags]

Commands:
  create-user   create a user (use --admin for a site admin)
  seed          provision users, groups and memberships from a YAML file

Run "taskctl <command> --help" for command flags.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprint(os.Stderr, usage)
		return nil
	}

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	switch args[0] {
	case "create-user":
		return runCreateUser(ctx, logger, args[1:])
	case "seed":
		return runSeed(ctx, logger, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// connect открывает пул соединений по переменным окружения DB_*
func connect(ctx context.Context, cfg *config.ToolConfig) (*pgxpool.Pool, error) {
	return postgres.Connect(ctx, cfg.Database.DSN(), 2, 0)
}
