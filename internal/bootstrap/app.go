package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "legaldoc-backend/internal/auth"
	"legaldoc-backend/internal/chats"
	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/inference"
	"legaldoc-backend/internal/queue"
	"legaldoc-backend/internal/shared/config"
	"legaldoc-backend/internal/shared/server"
	"legaldoc-backend/internal/shared/storage/db"
	"legaldoc-backend/internal/shared/storage/object"
	localstore "legaldoc-backend/internal/shared/storage/object/local"
	s3store "legaldoc-backend/internal/shared/storage/object/s3"
	"legaldoc-backend/internal/summaries"
	"legaldoc-backend/internal/users"
)

// App holds shared dependencies wired once and reused by every entrypoint.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Queue            queue.Client
	DocumentsRepo    documents.Repo
	ChatsRepo        chats.Repo
	UsersRepo        users.Repo
	AI               inference.Client
	DocumentsService *documents.Service
	SummariesService *summaries.Service
	ChatsService     *chats.Service
	UsersService     *users.Service
	DocumentsHandler *documents.Handler
	SummariesHandler *summaries.Handler
	ChatsHandler     *chats.Handler
	UsersHandler     *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		DocumentHandler: app.DocumentsHandler,
		SummaryHandler:  app.SummariesHandler,
		ChatHandler:     app.ChatsHandler,
		UserHandler:     app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
		UploadsEnabled:  strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET")) != "",
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context) (queue.Client, error) {
	if strings.TrimSpace(os.Getenv("LD_SQS_QUEUE_URL")) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var chatRepo chats.Repo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		chatRepo = &chats.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		chatRepo = chats.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	aiClient, err := buildInference(app.Config)
	if err != nil {
		return err
	}

	summariesSvc := summaries.NewService(docRepo, aiClient)

	contextChars := app.Config.ChatContextChars
	if contextChars <= 0 {
		contextChars = chats.DefaultContextChars
	}
	chatsSvc := &chats.Service{
		Docs:         docRepo,
		Ledger:       chatRepo,
		AI:           aiClient,
		ContextChars: contextChars,
	}

	docSvc := &documents.Service{
		Store:   app.Store,
		Repo:    docRepo,
		Threads: chatRepo,
		Warmer:  summariesSvc,
		Queue:   app.Queue,
	}

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.ChatsRepo = chatRepo
	app.UsersRepo = userRepo
	app.AI = aiClient
	app.DocumentsService = docSvc
	app.SummariesService = summariesSvc
	app.ChatsService = chatsSvc
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.SummariesHandler = summaries.NewHandler(summariesSvc)
	app.ChatsHandler = chats.NewHandler(chatsSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.DocumentsHandler == nil || app.SummariesHandler == nil || app.ChatsHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}

func buildInference(cfg config.Config) (inference.Client, error) {
	if strings.TrimSpace(cfg.AIServerURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: AI_SERVER_URL empty; using stub inference client")
			return inference.StubClient{}, nil
		}
		return nil, fmt.Errorf("AI_SERVER_URL is required")
	}
	return inference.NewHTTPClient(cfg.AIServerURL)
}
