package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/sabo-arena/internal/archive"
	"github.com/AdamBeresnev/sabo-arena/internal/config"
	"github.com/AdamBeresnev/sabo-arena/internal/db"
	"github.com/AdamBeresnev/sabo-arena/internal/middleware"
	"github.com/AdamBeresnev/sabo-arena/internal/service"
	"github.com/AdamBeresnev/sabo-arena/internal/store"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	database, err := db.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	log.Printf("Database connected (%s).", cfg.DBDriver)

	middleware.InitAuth(cfg)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.SessionLifetime
	if cfg.DBDriver == db.DriverSQLite {
		sessionManager.Store = sqlite3store.New(database.DB)
	} else {
		// TODO: keep sessions in Postgres with scs/postgresstore so they survive restarts
		sessionManager.Store = memstore.New()
	}

	var archiver service.Archiver
	if cfg.Archive.Enabled() {
		s3Archiver, err := archive.NewS3Archiver(context.Background(), cfg.Archive)
		if err != nil {
			log.Fatal("Failed to set up bracket archive:", err)
		}
		archiver = s3Archiver
		log.Printf("Archiving completed brackets to bucket %s", cfg.Archive.Bucket)
	}

	tournamentStore := store.NewTournamentStore(database)
	userStore := store.NewUserStore(database)
	app := &application{
		sessionManager: sessionManager,
		userStore:      userStore,
		users:          service.NewUserService(userStore),
		tournaments:    service.NewTournamentService(database, tournamentStore),
		matches:        service.NewMatchService(database, tournamentStore, archiver),
	}

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown:", err)
	}
}
