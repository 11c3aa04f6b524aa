package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"apotheca/internal/audit"
	authservice "apotheca/internal/auth/service"
	"apotheca/internal/comments"
	"apotheca/internal/favorites"
	"apotheca/internal/identity"
	jwttoken "apotheca/internal/jwt_token"
	"apotheca/internal/mail"
	"apotheca/internal/pharmacy"
	"apotheca/internal/platform/config"
	"apotheca/internal/platform/httpserver"
	"apotheca/internal/platform/logger"
	"apotheca/internal/platform/metrics"
	platformredis "apotheca/internal/platform/redis"
	"apotheca/internal/profile"
	httptransport "apotheca/internal/transport/http"
)

const auditQueueSize = 256

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	profiles, err := buildProfileStore(ctx, rdb, db)
	if err != nil {
		log.Error("profile store init failed", "error", err)
		os.Exit(1)
	}
	pharmacies := buildPharmacyStore(rdb)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer)
	provider := identity.NewMemoryProvider(tokens, cfg.ResetTokenTTL)
	m := metrics.New()

	var mailer mail.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Warn("SMTP not configured, recording mail in memory")
		mailer = mail.NewMemoryMailer()
	}

	auditInbox := make(chan audit.Event, auditQueueSize)
	auditor := audit.NewPublisher(auditInbox, log)
	auditWorker := audit.NewWorker(audit.NewMemoryStore(), auditInbox, log)

	authSvc := authservice.New(provider, profiles, tokens, mailer, auditor, log, m,
		cfg.ClientURL, cfg.SessionTTL)

	router := httptransport.NewRouter(httptransport.Handlers{
		Auth:       httptransport.NewAuthHandler(authSvc, log),
		Favorites:  httptransport.NewFavoritesHandler(favorites.New(profiles, log), log),
		Comments:   httptransport.NewCommentsHandler(comments.New(pharmacies, log, m), log),
		Pharmacies: httptransport.NewPharmaciesHandler(pharmacy.NewService(pharmacies, log), log),
		Resolver:   authservice.NewMiddlewareAdapter(authSvc),
		Logger:     log,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return auditWorker.Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting apotheca", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// buildProfileStore picks the profile document store: Postgres when a DSN is
// set, then Redis, then in-memory.
func buildProfileStore(ctx context.Context, rdb *platformredis.Client, db *sql.DB) (profile.Store, error) {
	if db != nil {
		store := profile.NewPostgresStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	if rdb != nil {
		return profile.NewRedisStore(rdb.Client), nil
	}
	return profile.NewMemoryStore(), nil
}

func buildPharmacyStore(rdb *platformredis.Client) pharmacy.Store {
	if rdb != nil {
		return pharmacy.NewRedisStore(rdb.Client)
	}
	return pharmacy.NewMemoryStore()
}
