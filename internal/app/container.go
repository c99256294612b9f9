// Package app wires the application together: configuration, storage,
// event publishing, and every command/query handler the API exposes.
package app

import (
	"context"
	"fmt"
	"log/slog"

	boardCommands "github.com/felixgeelhaar/focusboard/internal/board/application/commands"
	boardQueries "github.com/felixgeelhaar/focusboard/internal/board/application/queries"
	taskDomain "github.com/felixgeelhaar/focusboard/internal/board/domain/task"
	boardPersistence "github.com/felixgeelhaar/focusboard/internal/board/infrastructure/persistence"
	focusCommands "github.com/felixgeelhaar/focusboard/internal/focus/application/commands"
	focusQueries "github.com/felixgeelhaar/focusboard/internal/focus/application/queries"
	focusDomain "github.com/felixgeelhaar/focusboard/internal/focus/domain"
	focusPersistence "github.com/felixgeelhaar/focusboard/internal/focus/infrastructure/persistence"
	"github.com/felixgeelhaar/focusboard/internal/quotes"
	"github.com/felixgeelhaar/focusboard/internal/retention"
	settingsApp "github.com/felixgeelhaar/focusboard/internal/settings/application"
	settingsDomain "github.com/felixgeelhaar/focusboard/internal/settings/domain"
	settingsPersistence "github.com/felixgeelhaar/focusboard/internal/settings/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/focusboard/internal/shared/application"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/focusboard/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/focusboard/pkg/config"
	"github.com/felixgeelhaar/focusboard/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database
	DBConn database.Connection
	UoW    sharedApplication.UnitOfWork

	// Redis (optional)
	RedisClient *redis.Client

	// Events
	Publisher eventbus.Publisher

	// Repositories
	TaskRepo     taskDomain.Repository
	SessionRepo  focusDomain.Repository
	SettingsRepo settingsDomain.Repository

	// Board handlers
	CreateTask       *boardCommands.CreateTaskHandler
	UpdateTask       *boardCommands.UpdateTaskHandler
	ToggleTask       *boardCommands.ToggleTaskHandler
	DeleteTask       *boardCommands.DeleteTaskHandler
	DeleteAllTasks   *boardCommands.DeleteAllTasksHandler
	AssignPriority   *boardCommands.AssignPriorityHandler
	BulkReorder      *boardCommands.BulkReorderHandler
	SetFocusDuration *boardCommands.SetFocusDurationHandler
	ListTasks        *boardQueries.ListTasksHandler
	GetTask          *boardQueries.GetTaskHandler
	BoardView        *boardQueries.BoardViewHandler

	// Focus handlers
	StartSession  *focusCommands.StartSessionHandler
	PauseSession  *focusCommands.PauseSessionHandler
	ResumeSession *focusCommands.ResumeSessionHandler
	StopSession   *focusCommands.StopSessionHandler
	ExpireSession *focusCommands.ExpireSessionHandler
	ActiveSession *focusQueries.ActiveSessionHandler

	// Settings
	Settings *settingsApp.SettingsService

	// Quotes (nil when no API key is configured)
	Quotes *quotes.Service

	// Retention
	Sweeper   *retention.Sweeper
	Scheduler *retention.Scheduler
}

// NewContainer builds the dependency graph: storage first, then event
// publishing, then the handlers on top.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	c.initRedis()
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}
	c.initRepositories()
	c.initHandlers()
	if err := c.initRetention(); err != nil {
		c.Close()
		return nil, err
	}
	c.initHealthChecks()

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := database.Config{URL: c.Config.DatabaseURL}
	if database.DetectDriver(c.Config.DatabaseURL) == database.DriverSQLite {
		dbCfg = database.Config{Driver: database.DriverSQLite, SQLitePath: c.Config.DatabaseURL}
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	c.DBConn = conn
	c.UoW = database.NewUnitOfWork(conn)
	c.Logger.Info("database ready", "driver", conn.Driver().String())
	return nil
}

func (c *Container) initRedis() {
	if c.Config.RedisURL == "" {
		return
	}
	opts, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		c.Logger.Warn("invalid REDIS_URL, caching disabled", "error", err.Error())
		return
	}
	c.RedisClient = redis.NewClient(opts)
}

func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL == "" {
		c.Publisher = eventbus.NewInProcessBus(c.Logger)
		return nil
	}
	pub, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	c.Publisher = pub
	return nil
}

func (c *Container) initRepositories() {
	c.TaskRepo = boardPersistence.NewTaskRepository(c.DBConn)
	c.SessionRepo = focusPersistence.NewSessionRepository(c.DBConn)
	c.SettingsRepo = settingsPersistence.NewSettingsRepository(c.DBConn)
}

func (c *Container) initHandlers() {
	c.CreateTask = boardCommands.NewCreateTaskHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.UpdateTask = boardCommands.NewUpdateTaskHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.ToggleTask = boardCommands.NewToggleTaskHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.DeleteTask = boardCommands.NewDeleteTaskHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.DeleteAllTasks = boardCommands.NewDeleteAllTasksHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.AssignPriority = boardCommands.NewAssignPriorityHandler(c.TaskRepo, c.UoW, c.Publisher)
	c.BulkReorder = boardCommands.NewBulkReorderHandler(c.TaskRepo, c.UoW)
	c.SetFocusDuration = boardCommands.NewSetFocusDurationHandler(c.TaskRepo, c.UoW)
	c.ListTasks = boardQueries.NewListTasksHandler(c.TaskRepo)
	c.GetTask = boardQueries.NewGetTaskHandler(c.TaskRepo)
	c.BoardView = boardQueries.NewBoardViewHandler(c.TaskRepo)

	c.StartSession = focusCommands.NewStartSessionHandler(c.SessionRepo, c.TaskRepo, c.UoW, c.Publisher)
	c.PauseSession = focusCommands.NewPauseSessionHandler(c.SessionRepo, c.UoW, c.Publisher)
	c.ResumeSession = focusCommands.NewResumeSessionHandler(c.SessionRepo, c.UoW, c.Publisher)
	c.StopSession = focusCommands.NewStopSessionHandler(c.SessionRepo, c.UoW, c.Publisher)
	c.ExpireSession = focusCommands.NewExpireSessionHandler(c.SessionRepo, c.TaskRepo, c.UoW, c.Publisher)
	c.ActiveSession = focusQueries.NewActiveSessionHandler(c.SessionRepo, c.TaskRepo)

	c.Settings = settingsApp.NewSettingsService(c.SettingsRepo)

	if c.Config.QuotesAPIKey != "" {
		client := quotes.NewClient(c.Config.QuotesAPIKey)
		c.Quotes = quotes.NewService(client, c.RedisClient, c.Logger)
	}
}

func (c *Container) initRetention() error {
	c.Sweeper = retention.NewSweeper(c.TaskRepo, c.UoW, c.Publisher, c.Logger).
		WithRetention(c.Config.CompletedTaskRetention)

	if !c.Config.RetentionSweepEnabled {
		return nil
	}
	scheduler, err := retention.NewScheduler(c.Sweeper, c.ExpireSession, c.Metrics, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to build retention scheduler: %w", err)
	}
	c.Scheduler = scheduler
	return nil
}

func (c *Container) initHealthChecks() {
	c.Health.Register("database", observability.DatabaseHealthChecker(c.DBConn.Ping))

	if c.RedisClient != nil {
		c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}
}

// Close releases every held resource in reverse dependency order.
func (c *Container) Close() error {
	var firstErr error

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
