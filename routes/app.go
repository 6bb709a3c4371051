package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"product-catalog/config"
	"product-catalog/libs"
	"product-catalog/middleware"
	"product-catalog/repositories"
	"product-catalog/services"
)

// App is a fully wired server. Close releases its connections.
type App struct {
	Router  *gin.Engine
	Service *services.ProductService
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// NewApp connects the configured stores and builds the router.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{}

	repo, err := openRepository(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	if rdb := config.ConnectRedis(ctx, cfg); rdb != nil {
		app.closers = append(app.closers, func() { rdb.Close() })
		repo = repositories.NewCachedProductRepository(repo, rdb, cfg.CacheTTL, log)
	}

	stores, err := libs.NewAssetStores(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Service = services.NewProductService(cfg, repo, stores, libs.NewImageResolver(cfg), log)
	app.Router = NewRouter(cfg, app.Service, log)
	return app, nil
}

func NewRouter(cfg *config.Config, service *services.ProductService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORSMiddleware(cfg))
	router.MaxMultipartMemory = 32 << 20

	SetupRoutes(router, cfg, service)
	return router
}

func openRepository(ctx context.Context, cfg *config.Config, app *App) (repositories.ProductRepository, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, err := config.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { client.Disconnect(context.Background()) })

		repo := repositories.NewMongoProductRepository(client, cfg.MongoDatabase, cfg.MongoCollection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			zap.L().Warn("Could not create product indexes", zap.Error(err))
		}
		return repo, nil

	case config.DriverPostgres:
		pool, err := config.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pool.Close)
		return repositories.NewPostgresProductRepository(pool), nil

	case config.DriverMemory:
		zap.L().Warn("Using in-memory product store; data is lost on restart")
		return repositories.NewMemoryProductRepository(), nil

	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}
