package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"group_project_service/internal/config"
	"group_project_service/internal/domain/service"
	"group_project_service/internal/infrastructure/filestorage"
	"group_project_service/internal/infrastructure/persistence"
	"group_project_service/internal/infrastructure/projectapi"
	"group_project_service/internal/infrastructure/queue"
	"group_project_service/internal/server"
	"group_project_service/pkg/application/connectors"
	"group_project_service/pkg/application/modules"
	"group_project_service/pkg/contextx"
	"group_project_service/pkg/middlewarex"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const gradeJobBuffer = 100

var _ service.ProjectAPI = (*projectapi.Client)(nil)

type App struct {
	cfg        config.Config
	slog       *connectors.Slog
	postgres   *connectors.Postgres
	bolt       *connectors.Bolt
	redis      *connectors.Redis
	httpServer modules.HTTPServer
	worker     modules.Worker
}

func New(appVersion string) App {
	const appName = "group_project_service"

	cfg := lo.Must(config.Load())

	return App{
		cfg: cfg,
		slog: &connectors.Slog{
			Name:    appName,
			Version: appVersion,
			Debug:   cfg.Debug,
			Rollbar: &connectors.Rollbar{
				Token:       cfg.Rollbar.Token,
				Environment: cfg.Env,
			},
		},
		postgres: &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		},
		bolt: &connectors.Bolt{
			Path: cfg.Bolt.Path,
		},
		redis: &connectors.Redis{
			Addr:     cfg.Queue.RedisAddr,
			Password: cfg.Queue.RedisPassword,
			DB:       cfg.Queue.RedisDB,
		},

		httpServer: modules.HTTPServer{
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		},
		worker: modules.Worker{
			Concurrency: cfg.Queue.Concurrency,
		},
	}
}

func (app App) shutdown(ctx context.Context) {
	app.postgres.Close(ctx)
	app.bolt.Close(ctx)
	app.slog.Close()
}

func (app App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	defer stop()

	ctx = contextx.WithLogger(ctx, app.slog.Logger(ctx))

	defer app.shutdown(ctx)

	logger(ctx).Info("config",
		slog.String("env", app.cfg.Env),
		slog.String("storage", app.cfg.Storage.Driver),
		slog.String("files", app.cfg.Files.Driver),
		slog.String("project_api", app.cfg.ProjectAPI.Address),
		slog.Bool("dry_run", app.cfg.ProjectAPI.DryRun),
		slog.Bool("redis", app.redis.Enabled()),
	)

	activityRepo, err := app.activityRepository(ctx)
	if err != nil {
		return err
	}
	files, err := app.fileStorage(ctx)
	if err != nil {
		return err
	}
	api := app.projectAPI()

	g, ctx := errgroup.WithContext(ctx)

	var (
		scheduler service.GradeScheduler
		jobs      chan service.GradeJob
	)
	if app.redis.Enabled() {
		gradeQueue := queue.NewGradeQueue(app.redis.ClientOpt())
		defer func() {
			if err := gradeQueue.Close(); err != nil {
				logger(ctx).Error("grade queue close", slog.Any("error", err))
			}
		}()
		scheduler = gradeQueue
	} else {
		jobs = make(chan service.GradeJob, gradeJobBuffer)
		scheduler = service.ChanScheduler(jobs)
	}

	activityService := service.NewActivityService(activityRepo)
	stageService := service.NewStageService(activityRepo, api)
	reviewService := service.NewReviewService(activityRepo, api, stageService, scheduler)
	submissionService := service.NewSubmissionService(api, files, stageService)
	gradingService := service.NewGradingService(activityRepo, api, jobs)

	if app.redis.Enabled() {
		app.worker.Run(ctx, g, app.redis.ClientOpt(), queue.NewHandler(gradingService))
	} else {
		g.Go(func() error {
			gradingService.StartEventWorker(ctx)
			return nil
		})
	}

	handler := server.NewServer(
		activityService,
		stageService,
		reviewService,
		submissionService,
		api,
		app.cfg.Files.MaxUploadBytes,
	)
	if _, err := app.httpServer.Run(ctx, g, app.newHTTPServer(ctx, handler)); err != nil {
		stop()
		_ = g.Wait()
		return fmt.Errorf("httpServer.Run: %w", err)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

func (app App) activityRepository(ctx context.Context) (service.ActivityRepository, error) {
	switch app.cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := app.postgres.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("postgres.Client: %w", err)
		}
		repo := persistence.NewActivityRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("repo.Migrate: %w", err)
		}
		return repo, nil
	default:
		db, err := app.bolt.Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("bolt.Client: %w", err)
		}
		return persistence.NewBoltActivityRepository(db), nil
	}
}

func (app App) fileStorage(ctx context.Context) (service.FileStorage, error) {
	files := app.cfg.Files
	if files.Driver == config.FilesDriverB2 {
		storage, err := filestorage.NewB2Storage(ctx, files.B2KeyID, files.B2AppKey, files.B2Bucket)
		if err != nil {
			return nil, fmt.Errorf("filestorage.NewB2Storage: %w", err)
		}
		return storage, nil
	}
	return filestorage.NewLocalStorage(files.LocalDir, files.LocalBaseURL), nil
}

func (app App) projectAPI() *projectapi.Client {
	return projectapi.New(
		app.cfg.ProjectAPI.Address,
		app.cfg.ProjectAPI.DryRun,
		projectapi.WithHTTPClient(&http.Client{Timeout: app.cfg.ProjectAPI.Timeout}),
		projectapi.WithToken(app.cfg.ProjectAPI.Token),
	)
}

func (app App) newHTTPServer(ctx context.Context, handler *server.Server) *http.Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewarex.Logger,
		middleware.Recoverer,
	)

	handler.RegisterRoutes(router)

	if app.cfg.Files.Driver == config.FilesDriverLocal {
		prefix := "/" + strings.Trim(app.cfg.Files.LocalBaseURL, "/")
		router.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(app.cfg.Files.LocalDir))))
	}

	return &http.Server{
		//nolint:exhaustruct
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
		Addr:              app.cfg.HTTP.ListenAddress,
		WriteTimeout:      app.cfg.HTTP.WriteTimeout,
		ReadTimeout:       app.cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: app.cfg.HTTP.ReadTimeout,
		IdleTimeout:       app.cfg.HTTP.IdleTimeout,
		Handler:           router,
	}
}
