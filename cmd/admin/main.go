package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/escolar/admin-console/internal/adapters/apiclient"
	"github.com/escolar/admin-console/internal/adapters/handler"
	"github.com/escolar/admin-console/internal/adapters/metrics"
	"github.com/escolar/admin-console/internal/adapters/middleware"
	"github.com/escolar/admin-console/internal/adapters/repository"
	"github.com/escolar/admin-console/internal/adapters/session"
	"github.com/escolar/admin-console/internal/config"
	"github.com/escolar/admin-console/internal/core/domain"
	"github.com/escolar/admin-console/internal/core/ports"
	"github.com/escolar/admin-console/internal/core/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	collector := metrics.NewCollector()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)
	pingers := map[string]handler.Pinger{"redis": sessions}

	var audit ports.AuditRecorder = repository.LogAuditRecorder{}
	if cfg.AuditDatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.AuditDatabaseURL)
		if err != nil {
			log.Fatalf("failed to open audit database: %v", err)
		}
		defer db.Close()

		auditRepo := repository.NewSQLAuditRepository(db)
		if err := auditRepo.EnsureSchema(ctx); err != nil {
			log.Printf("WARNING - audit schema not ensured: %v", err)
		}
		audit = auditRepo
		pingers["audit_db"] = auditRepo
		log.Println("Audit events go to the outbox table")
	} else {
		log.Println("AUDIT_DB_CONNECTION_STRING not set, audit events are only logged")
	}

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, collector)
	authService := services.NewAuthService(apiclient.NewAuth(api), sessions)

	renderer, err := handler.NewRenderer()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	cookies := session.NewCookies(cfg.SessionSecret, int(cfg.SessionTTL.Seconds()), cfg.CookieSecure)

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, cfg.TrustedProxies...)
	defer limiter.Stop()

	router := handler.NewRouter(handler.Deps{
		App: &handler.App{
			Renderer: renderer,
			Cookies:  cookies,
			Tickets:  handler.NewTickets(cfg.ConfirmSecret),
			Audit:    metrics.CountingRecorder{Next: audit, Collector: collector},
			Metrics:  collector,
		},
		Auth:     authService,
		AuthMW:   middleware.NewAuthMiddleware(cookies, sessions),
		Limiter:  limiter,
		Health:   handler.NewHealthHandler(pingers),
		Metrics:  collector.Handler(),
		Term:     handler.Term{Start: cfg.CalendarTermStart, Weeks: cfg.CalendarTermWeeks},
		Origins:  cfg.CalendarOrigins,
		Students: apiclient.NewResource[domain.Student](api, domain.Students),
		Teachers: apiclient.NewResource[domain.Teacher](api, domain.Teachers),
		Admins:   apiclient.NewResource[domain.Admin](api, domain.Admins),
		Sections: apiclient.NewResource[domain.Section](api, domain.Sections),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal %v, shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Shutdown complete")
}
