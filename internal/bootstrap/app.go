package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"Blog_Backend/internal/config"
	"Blog_Backend/internal/handler"
	"Blog_Backend/internal/hub"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
	"Blog_Backend/internal/repository/redis"
	"Blog_Backend/internal/router"
	"Blog_Backend/internal/seed"
	"Blog_Backend/internal/service"
	"Blog_Backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// App 持有需要在退出时关闭的组件
type App struct {
	Config     *config.Config
	Log        *logrus.Logger
	HttpServer *http.Server

	hub        *hub.Hub
	dispatcher *service.NotificationDispatcher
	relayer    *service.OutboxRelayer
	queue      *worker.Queue
	worker     *worker.Server
	kafka      *pkg.KafkaProducer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)
	log.WithField("env", cfg.AppEnv).Info("config loaded")

	if err = mysql.InitDB(cfg.MySQLDSN); err != nil {
		return nil, fmt.Errorf("init mysql: %w", err)
	}
	if err = mysql.AutoMigrate(mysql.DB); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err = redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	pkg.InitJWT(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	ctx := context.Background()
	if cfg.SeedFile != "" {
		if err = seed.NewSeeder(mysql.DB, log).RunFile(ctx, cfg.SeedFile); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var mailer pkg.Mailer = service.LogMailer{Log: log}
	if cfg.SMTPHost != "" {
		mailer = pkg.NewSMTPMailer(pkg.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	app := &App{Config: cfg, Log: log}

	sender := service.LogSender(log)
	if len(cfg.KafkaBrokers) > 0 {
		app.kafka = pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		sender = service.KafkaSender(app.kafka)
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	app.queue = worker.NewQueue(redisOpt)
	app.worker = worker.NewServer(redisOpt, storage, log)

	db := mysql.DB
	users := &mysql.UserRepository{DB: db}
	roles := &mysql.RoleRepository{DB: db}
	permissions := &mysql.PermissionRepository{DB: db}
	menus := &mysql.MenuRepository{DB: db}
	articles := &mysql.ArticleRepository{DB: db}
	comments := &mysql.CommentRepository{DB: db}
	follows := &mysql.FollowRepository{DB: db}
	likes := &mysql.LikeRepository{DB: db}
	favorites := &mysql.FavoriteRepository{DB: db}

	tokens := &redis.TokenRepository{RDB: redis.Client}
	limiter := &redis.RateLimiter{RDB: redis.Client}

	app.hub = hub.New(nil, log)
	notifications := service.NewNotificationService(&mysql.NotificationRepository{DB: db}, app.hub, log)
	app.hub.SetCounter(notifications)
	app.dispatcher = service.NewNotificationDispatcher(notifications, cfg.NotifyQueueSize, cfg.NotifyWorkers, log)
	app.relayer = service.NewOutboxRelayer(&mysql.OutboxRepository{DB: db}, &redis.DistLock{RDB: redis.Client}, sender, log)

	authSvc := service.NewAuthService(service.AuthDeps{
		Users:   users,
		Tokens:  tokens,
		Captcha: &redis.CaptchaRepository{RDB: redis.Client},
		Emails:  &redis.EmailRepository{RDB: redis.Client},
		Mailer:  mailer,
	}, log)
	userSvc := service.NewUserService(users, roles, tokens, log)
	articleSvc := service.NewArticleService(service.ArticleDeps{
		Articles:  articles,
		Comments:  comments,
		Likes:     likes,
		Favorites: favorites,
		Follows:   follows,
	}, log)
	interactionSvc := service.NewInteractionService(service.InteractionDeps{
		Users:     users,
		Articles:  articles,
		Follows:   follows,
		Likes:     likes,
		Favorites: favorites,
		Events:    app.dispatcher,
	}, log)
	commentSvc := service.NewCommentService(comments, articles, &mysql.CommentWebRepository{DB: db})
	mediaSvc := service.NewMediaService(&mysql.ImageRepository{DB: db}, storage, app.queue, cfg.UploadMaxBytes, log)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, userSvc),
		User:         handler.NewUserHandler(userSvc, interactionSvc),
		Article:      handler.NewArticleHandler(articleSvc),
		Interaction:  handler.NewInteractionHandler(interactionSvc),
		Comment:      handler.NewCommentHandler(commentSvc),
		Notification: handler.NewNotificationHandler(notifications),
		Role:         handler.NewRoleHandler(service.NewRoleService(roles, permissions, menus, users)),
		Permission:   handler.NewPermissionHandler(service.NewPermissionService(permissions)),
		Menu:         handler.NewMenuHandler(service.NewMenuService(menus, roles, users)),
		Content: handler.NewContentHandler(
			service.NewDiaryService(&mysql.DiaryRepository{DB: db}, &mysql.MessageRepository{DB: db}),
			service.NewLinkService(&mysql.LinkRepository{DB: db}, nil, log),
			service.NewDictService(&mysql.DictRepository{DB: db}),
			service.NewVisitService(&mysql.VisitRepository{DB: db}),
		),
		Media: handler.NewMediaHandler(mediaSvc, cfg.UploadMaxBytes),
		WS:    handler.NewWSHandler(app.hub, cfg.CORSOrigins),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	deps := router.Deps{
		Handlers:        handlers,
		Tokens:          tokens,
		Limiter:         limiter,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		CORSOrigins:     cfg.CORSOrigins,
		Log:             log,
	}
	if cfg.StorageDriver == "local" {
		deps.UploadDir = cfg.UploadDir
	}
	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router.New(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (pkg.Storage, error) {
	if cfg.StorageDriver == "minio" {
		s, err := pkg.NewMinioStorage(ctx, pkg.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio: %w", err)
		}
		return s, nil
	}
	s, err := pkg.NewLocalStorage(cfg.UploadDir, cfg.PublicHost+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}
	return s, nil
}

// Start 启动后台组件和 HTTP 服务，不阻塞
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.dispatcher.Start()
	a.wg.Add(2)
	go func() {
		defer a.wg.Done()
		a.relayer.Run(ctx)
	}()
	go func() {
		defer a.wg.Done()
		a.worker.Start()
	}()

	go func() {
		a.Log.WithField("addr", a.HttpServer.Addr).Info("http server listening")
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.WithError(err).Fatal("http server failed")
		}
	}()
}

// Shutdown 先停入口再停后台，最后关闭连接
func (a *App) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.WithError(err).Error("http server shutdown")
	}
	a.hub.Close()
	a.dispatcher.Stop()
	if a.cancel != nil {
		a.cancel()
	}
	a.worker.Shutdown()
	a.wg.Wait()

	if err := a.queue.Close(); err != nil {
		a.Log.WithError(err).Warn("close task queue")
	}
	if err := a.kafka.Close(); err != nil {
		a.Log.WithError(err).Warn("close kafka producer")
	}
	if err := redis.Close(); err != nil {
		a.Log.WithError(err).Warn("close redis")
	}
	if err := mysql.Close(); err != nil {
		a.Log.WithError(err).Warn("close mysql")
	}
	a.Log.Info("shutdown complete")
}
