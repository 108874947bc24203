// Package app bootstraps the process: logger, database, migrations,
// catalog store, photo storage, and both front ends (bot and HTTP API).
package app

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/rshop/shopbot/admin"
	"github.com/rshop/shopbot/api"
	"github.com/rshop/shopbot/catalog"
	"github.com/rshop/shopbot/config"
	"github.com/rshop/shopbot/database"
	"github.com/rshop/shopbot/logger"
	"github.com/rshop/shopbot/storage"
	tg "github.com/rshop/shopbot/telegram"
	"github.com/rshop/shopbot/telegram/middleware"
	"github.com/rshop/shopbot/telegram/router"
	"github.com/rshop/shopbot/telegram/state"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
)

// App holds the wired application components.
type App struct {
	Config *config.Config
	DB     *sqlx.DB

	Store  *catalog.Store
	Photos *storage.Photos
	Admin  *admin.Handler
	API    *api.Server
}

// New initializes the logger, connects to the database, applies
// migrations, and wires the catalog on top.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	if err := logger.InitLogger(cfg); err != nil {
		return nil, fmt.Errorf("app: logger init failed: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: database initialization failed: %w", err)
	}
	if err := database.RunMigrations(cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: migrations failed: %w", err)
	}

	photos, err := storage.NewPhotos(cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("app: photo storage init failed: %w", err)
	}

	store := catalog.NewStore(db)
	adm := admin.NewHandler(store, state.NewMemoryManager(), photos)

	return &App{
		Config: cfg,
		DB:     db,
		Store:  store,
		Photos: photos,
		Admin:  adm,
		API:    api.NewServer(store, photos),
	}, nil
}

// Close releases process-wide resources.
func (a *App) Close() error {
	return a.DB.Close()
}

// TelegramRunOptions assembles the bot registry, middleware chain, and
// routes. Every admin panel callback is gated on the operator set.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.Admin.Register(reg)

	adminIDs := a.Config.Telegram.AdminSet()

	onLimited := func(c tele.Context) error {
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: "⏳ Too fast, try again"})
		}
		return nil
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      adminIDs,
		OnAdminReject: admin.AccessDenied,
	})

	cbRoute := router.CallbackRoute(reg, router.CallbackOptions{})
	cbRoute.Handler = middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminIDs: adminIDs,
		OnReject: admin.AccessDenied,
	})(cbRoute.Handler)
	routes = append(routes, cbRoute)

	routes = append(routes, router.MessageRoutes(a.Admin.FSM(), reg, router.MessageOptions{})...)

	return tg.RunOptions{
		Config:      a.Config,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.Config, onLimited),
		Routes:      routes,
	}, nil
}

// RunAPI serves the HTTP API until the context is cancelled, then drains
// in-flight requests.
func (a *App) RunAPI(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.API.Listen(a.Config.API.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.API.Shutdown(shutdownCtx); err != nil {
		logger.API.Warn("api shutdown failed",
			slog.String("event", "api.shutdown"),
			slog.String("err", err.Error()),
		)
		return err
	}
	return <-errCh
}
