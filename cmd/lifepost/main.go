package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifepost/lifepost/internal/auth/guard"
	authhttp "github.com/lifepost/lifepost/internal/auth/http"
	authservice "github.com/lifepost/lifepost/internal/auth/service"
	"github.com/lifepost/lifepost/internal/auth/session"
	"github.com/lifepost/lifepost/internal/common/config"
	commoncrypto "github.com/lifepost/lifepost/internal/common/crypto"
	"github.com/lifepost/lifepost/internal/common/db"
	commonhttp "github.com/lifepost/lifepost/internal/common/http"
	"github.com/lifepost/lifepost/internal/common/logger"
	"github.com/lifepost/lifepost/internal/common/resilience"
	srv "github.com/lifepost/lifepost/internal/common/server"
	"github.com/lifepost/lifepost/internal/feed"
	posthttp "github.com/lifepost/lifepost/internal/post/http"
	postrepo "github.com/lifepost/lifepost/internal/post/repository"
	postservice "github.com/lifepost/lifepost/internal/post/service"
	"github.com/lifepost/lifepost/internal/upload"
	userrepo "github.com/lifepost/lifepost/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "lifepost", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	userRepo := userrepo.NewPgRepository(pool)
	postRepo := postrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := &commoncrypto.UUIDGenerator{}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  cfg.CircuitBreakerThreshold,
		Timeout:    cfg.CircuitBreakerTimeout,
		ResetAfter: cfg.CircuitBreakerReset,
		Name:       "store",
		Logger:     log,
	})

	authService := authservice.NewAuthService(userRepo, hasher, idGenerator, breaker, log)
	binder := session.NewBinder(userRepo, idGenerator, cfg.SessionSecret, cfg.SessionTTL, log)
	accessGuard := guard.New(guard.ByAuthorName)

	imageStore, err := upload.NewDiskStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to prepare upload directory: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := feed.NewHub(log)
	go hub.Run(ctx)

	postService := postservice.NewPostService(postRepo, accessGuard, imageStore, hub, idGenerator, breaker, log)

	apiMux := http.NewServeMux()
	authhttp.NewHandler(authService, binder, accessGuard, cfg.SessionTTL, cfg.RequestTimeout, log).Register(apiMux)
	posthttp.NewHandler(postService, cfg.RequestTimeout, log).Register(apiMux)
	apiMux.HandleFunc("/health", commonhttp.HealthHandler(log))
	apiMux.Handle("/metrics", promhttp.Handler())
	apiMux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	sessionMiddleware := authhttp.SessionMiddleware(binder, log)
	baseHandler := commonhttp.BuildBaseHandler(log, sessionMiddleware(apiMux))

	rateLimiter := commonhttp.NewStrictRateLimiter()
	rateLimitMiddleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if path == "/health" || path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			rateLimiter.MiddlewareForPath(path)(next).ServeHTTP(w, r)
		})
	}

	feedMux := http.NewServeMux()
	feed.NewHandler(hub, accessGuard, log).Register(feedMux)

	// The websocket route stays outside the metrics and recovery wrap; the
	// wrapped response writer cannot be hijacked by the upgrader.
	mainMux := http.NewServeMux()
	mainMux.Handle("/api/feed/ws", sessionMiddleware(feedMux))
	mainMux.Handle("/", rateLimitMiddleware(baseHandler))

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, mainMux)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Info("stopping feed hub")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, log, shutdownHooks)
}
