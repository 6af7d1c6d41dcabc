package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/goliatone/photoshare"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config photoshare.Config
	bunDB  *bun.DB
	repo   photoshare.RepositoryManager
	auth   *photoshare.Authenticator
	codec  photoshare.TokenService
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {

	godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("photoshare"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := photoshare.LoadConfig()
	if err := cfg.Valid(); err != nil {
		panic(err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithAuth(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	app.srv.Serve(cfg.ServerAddr)

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.config.DatabasePath)
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	migrations, err := fs.Sub(photoshare.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	if err := runMigrations(ctx, db, migrations); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = photoshare.NewRepositoryManager(db)

	return nil
}

// runMigrations executes the embedded schema files in lexical order. Each
// file is idempotent, so replaying the whole set on boot is safe.
func runMigrations(ctx context.Context, db *bun.DB, migrations fs.FS) error {
	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(migrations, name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "migration failed").
				WithMetadata(map[string]any{"file": name})
		}
	}

	return nil
}

func WithAuth(ctx context.Context, app *App) error {
	codec := photoshare.NewTokenService(
		[]byte(app.config.SigningKey),
		app.config.Issuer,
		app.GetLogger("tokens"),
	)

	flow := photoshare.NewTokenFlow(codec, app.repo.Users()).
		WithLogger(app.GetLogger("tokens"))

	notifier := photoshare.NewSMTPNotifier(app.config.SMTP)

	app.codec = codec
	app.auth = photoshare.NewAuthenticator(flow, app.repo.Users(), notifier, app.config.Origin).
		WithLogger(app.GetLogger("auth"))

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	photoshare.RegisterAuthRoutes(srv.Router(),
		photoshare.WithAuthenticator(app.auth),
		photoshare.WithTokenService(app.codec),
		photoshare.WithControllerLogger(app.GetLogger("auth.http")),
	)

	photoshare.RegisterGalleryRoutes(srv.Router(),
		photoshare.WithGalleryRepo(app.repo),
		photoshare.WithGalleryTokenService(app.codec),
		photoshare.WithGalleryLogger(app.GetLogger("gallery.http")),
	)

	app.srv = srv

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
