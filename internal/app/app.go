package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/aidar/task-tracker/internal/config"
	"github.com/aidar/task-tracker/internal/handler"
	"github.com/aidar/task-tracker/internal/middleware"
	"github.com/aidar/task-tracker/internal/repository/postgres"
	"github.com/aidar/task-tracker/internal/repository/redis"
	"github.com/aidar/task-tracker/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	redis  *goredis.Client
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Подключаемся к Redis (хранилище отозванных токенов)
	if err := a.connectRedis(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	pool, err := postgres.Connect(ctx, a.config.Database.DSN(), a.config.Database.MaxConns, a.config.Database.MinConns)
	if err != nil {
		return err
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// connectRedis устанавливает подключение к Redis
func (a *App) connectRedis(ctx context.Context) error {
	client, err := redis.Open(ctx, a.config.Redis.URL, a.config.Redis.PoolSize)
	if err != nil {
		return err
	}

	a.redis = client
	a.logger.Info("Connected to redis")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой репозиториев
	userRepo := postgres.NewUserRepository(a.db)
	groupRepo := postgres.NewGroupRepository(a.db)
	taskRepo := postgres.NewTaskRepository(a.db)
	revocationRepo := redis.NewTokenRevocationRepository(a.redis)

	// Инициализируем слой сервисов (бизнес-логика)
	guard := service.NewGuard(userRepo, groupRepo, a.logger)
	hasher := service.NewPasswordHasher(a.config.Auth.BcryptCost)
	authService := service.NewAuthService(
		userRepo,
		revocationRepo,
		hasher,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	taskService := service.NewTaskService(taskRepo, guard)
	boardService := service.NewBoardService(taskRepo, groupRepo, guard)
	groupService := service.NewGroupService(groupRepo, userRepo, guard)
	userService := service.NewUserService(userRepo, groupRepo, hasher, guard)
	adminService := service.NewAdminService(userRepo, groupRepo, guard)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService, boardService)
	groupHandler := handler.NewGroupHandler(groupService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(adminService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Публичные эндпоинты (без авторизации)
	r.Post("/auth/login", authHandler.Login)

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization).
	// Права проверяются в сервисах по актуальным данным из БД.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/auth/logout", authHandler.Logout)

		// Эндпоинты задач
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// Просмотр группы доступен участникам и администратору группы
		r.Get("/groups/{id}", groupHandler.Get)

		// Эндпоинты администратора
		r.Route("/admin", func(r chi.Router) {
			r.Get("/", adminHandler.Dashboard)

			r.Post("/groups", groupHandler.Create)
			r.Put("/groups/{id}", groupHandler.Update)
			r.Delete("/groups/{id}", groupHandler.Delete)
			r.Post("/groups/{id}/members", groupHandler.AddMember)
			r.Delete("/groups/{id}/members/{userID}", groupHandler.RemoveMember)

			r.Get("/users", userHandler.List)
			r.Post("/users", userHandler.Create)
			r.Delete("/users/{id}", userHandler.Delete)
		})
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключение к Redis
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Failed to close redis client", "error", err)
		}
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
