package main // Entry point package

import (
	"context"   // shutdown and background worker lifetimes
	"errors"    // detect graceful server close
	"net/http"  // http.ErrServerClosed
	"os"        // signal channel
	"os/signal" // graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // shutdown deadline

	"github.com/joho/godotenv"                      // .env loading for local runs
	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo built-in middleware
	"github.com/labstack/gommon/log"                // structured application logging

	"github.com/1316346949/meeting-room-booking-system/internal/cache"
	"github.com/1316346949/meeting-room-booking-system/internal/config"
	"github.com/1316346949/meeting-room-booking-system/internal/database"
	"github.com/1316346949/meeting-room-booking-system/internal/handler"
	"github.com/1316346949/meeting-room-booking-system/internal/middleware"
	"github.com/1316346949/meeting-room-booking-system/internal/queue"
	"github.com/1316346949/meeting-room-booking-system/internal/repository"
	"github.com/1316346949/meeting-room-booking-system/internal/repository/memstore"
	"github.com/1316346949/meeting-room-booking-system/internal/router"
	"github.com/1316346949/meeting-room-booking-system/internal/service"
	"github.com/1316346949/meeting-room-booking-system/internal/service/ports"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine; the environment wins

	logger := log.New("booking")
	logger.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`)
	logger.SetLevel(log.INFO)

	cfg := config.Load()
	bookingCfg, err := config.LoadBookingConfig()
	if err != nil {
		logger.Fatalf("booking config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store: MySQL in every deployed environment, memory for demos and local runs.
	var (
		store ports.BookingStore
		rooms ports.RoomDirectory
		users ports.UserDirectory
		ready handler.Pinger
	)
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			logger.Fatalf("mysql: %v", err)
		}
		defer db.Close()
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				logger.Fatalf("migrate: %v", err)
			}
		}
		store = repository.NewBookingRepo(db, repository.RetryPolicy{
			Attempts: bookingCfg.CreateRetries,
			Delay:    bookingCfg.CreateRetryDelay,
		})
		rooms = repository.NewRoomRepo(db)
		users = repository.NewUserRepo(db)
		ready = db
	default:
		mem := memstore.New()
		mem.SeedDemo()
		store, rooms, users = mem, mem, mem
		logger.Warnj(log.JSON{"msg": "using in-memory store; data is lost on restart"})
	}

	// Redis is optional: without it the listing cache and rate limit are pass-through.
	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		logger.Warnj(log.JSON{"msg": "redis unavailable", "error": err.Error()})
	} else {
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	var publishers []ports.EventPublisher
	if rdb != nil && cacheCfg.Enabled {
		publishers = append(publishers, cache.NewGeneration(rdb, cacheCfg.GenerationKey))
	}
	queueCfg := config.LoadQueueConfig()
	if queueCfg.Enabled {
		pub, err := queue.NewPublisher(queueCfg.URL, queueCfg.Exchange)
		if err != nil {
			logger.Warnj(log.JSON{"msg": "event publishing disabled", "error": err.Error()})
		} else {
			defer pub.Close()
			publishers = append(publishers, pub)
			audit := &queue.AuditConsumer{
				URL:      queueCfg.URL,
				Exchange: queueCfg.Exchange,
				Queue:    queueCfg.Queue,
				LogPath:  queueCfg.AuditLog,
				Logger:   logger,
			}
			go func() {
				if err := audit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Errorj(log.JSON{"msg": "audit consumer stopped", "error": err.Error()})
				}
			}()
		}
	}

	svc := service.NewBookingService(store, rooms, users, logger, service.Options{
		MaxPageSize:        bookingCfg.MaxPageSize,
		DefaultRangeWindow: bookingCfg.DefaultRangeWindow,
		LookupTimeout:      bookingCfg.LookupTimeout,
		PublishTimeout:     bookingCfg.PublishTimeout,
	}, publishers...)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Infoj(log.JSON{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"request_id": v.RequestID,
			})
			return nil
		},
	}))

	router.RegisterRoutes(e, ready)
	router.RegisterBookings(e, handler.NewBookingHandler(svc), cfg.JWTSecret, router.BookingMiddleware{
		ListCache:  middleware.NewListingCache(cacheCfg, rdb),
		CreateRate: middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb).Middleware(),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Infoj(log.JSON{"msg": "listening", "addr": addr, "env": cfg.Env, "store": cfg.StoreDriver})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorj(log.JSON{"msg": "shutdown", "error": err.Error()})
	}
}
