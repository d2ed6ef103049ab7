package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ministry-site/core/internal/config"
	"github.com/ministry-site/core/internal/database"
	"github.com/ministry-site/core/internal/middleware"
	"github.com/ministry-site/core/internal/modules/notify"
	"github.com/ministry-site/core/internal/modules/storage/file"
	pkgcron "github.com/ministry-site/core/internal/pkg/cron"
	jwtpkg "github.com/ministry-site/core/internal/pkg/jwt"
	"github.com/ministry-site/core/internal/pkg/mail"
	pkgredis "github.com/ministry-site/core/internal/pkg/redis"
	"github.com/ministry-site/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies. Handlers receive what they need
// from here at route registration; nothing is kept in package state.
type App struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	router   *gin.Engine
	db       *gorm.DB
	redis    *pkgredis.Client
	signer   *jwtpkg.Signer
	mailer   *mail.Sender
	notifier *notify.Service
	uploader *file.Uploader
	queue    *taskqueue.Queue
	sched    *pkgcron.Scheduler
	started  time.Time
	cancel   context.CancelFunc
}

// deps are the externally owned resources App is built on.
type deps struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	db     *gorm.DB
	redis  *pkgredis.Client // nil when Redis is not configured
	mailer notify.Mailer    // overrides the configured sender when set
}

// New initializes the application: config → DB → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Info("redis not configured, using in-process rate limit and task store")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := build(deps{cfg: cfg, logger: logger, db: db, redis: rc})
	if err != nil {
		if rc != nil {
			_ = rc.Close()
		}
		_ = database.Close(db)
		return nil, err
	}
	a.start()
	return a, nil
}

func build(d deps) (*App, error) {
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	cfg := d.cfg

	var store taskqueue.Store = taskqueue.NewMemoryStore()
	if d.redis != nil {
		store = taskqueue.NewRedisStore(d.redis)
	}
	queue := taskqueue.New(store, cfg.Queue.Workers, cfg.Queue.Buffer, d.logger.Named("TaskQueue"))

	sender := mail.New(mail.BuildMailConfig(cfg))
	var mailer notify.Mailer = sender
	if d.mailer != nil {
		mailer = d.mailer
	}
	if !sender.Enabled() && d.mailer == nil {
		d.logger.Info("mail is disabled, notifications will be dropped")
	}

	uploader, err := file.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("upload backend: %w", err)
	}

	sched := pkgcron.New(d.logger.Named("CronService"))
	if err := registerCronJobs(sched, queue.Store(), d.logger); err != nil {
		return nil, err
	}

	a := &App{
		cfg:      cfg,
		logger:   d.logger,
		db:       d.db,
		redis:    d.redis,
		signer:   jwtpkg.NewSigner(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		mailer:   sender,
		notifier: notify.New(mailer, queue, notify.ConfigFrom(cfg), d.logger.Named("notify")),
		uploader: uploader,
		queue:    queue,
		sched:    sched,
		started:  time.Now(),
		cancel:   func() {},
	}
	a.router = a.newRouter()
	a.registerRoutes()
	return a, nil
}

func (a *App) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Environment(a.cfg.IsDev()))
	router.Use(newCORS(a.cfg))

	limit := a.cfg.BodyLimit
	// multipart uploads carry the file plus form overhead
	if upload := a.cfg.Upload.MaxFileSize + 1<<20; upload > limit {
		limit = upload
	}
	router.Use(middleware.BodyLimit(limit))
	return router
}

// start launches the queue workers and the scheduler.
func (a *App) start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.queue.Start(ctx)
	a.sched.Start()
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background work, then releases Redis and the DB pool.
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.sched.Stop(ctx)
	a.queue.Stop()
	a.cancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
}
