package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/devcamper/devcamper/backend/go-services/handlers"
	"github.com/devcamper/devcamper/backend/go-services/internal/bootcamps"
	"github.com/devcamper/devcamper/backend/go-services/internal/config"
	"github.com/devcamper/devcamper/backend/go-services/internal/courses"
	"github.com/devcamper/devcamper/backend/go-services/internal/database"
	"github.com/devcamper/devcamper/backend/go-services/internal/geocoder"
	"github.com/devcamper/devcamper/backend/go-services/internal/storage"
	"github.com/devcamper/devcamper/backend/go-services/pkg/logger"
	"github.com/devcamper/devcamper/backend/go-services/pkg/metrics"
	"github.com/devcamper/devcamper/backend/go-services/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

var startTime = time.Now()

// app is everything the router needs, built once in run.
type app struct {
	cfg       *config.Config
	stores    *database.Stores
	bootcamps *bootcamps.Service
	courses   *courses.Service
	redis     *redis.Client
	gatherer  prometheus.Gatherer
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if !cfg.Server.Development() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Errorf("server stopped: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Infof("server stopped")
	logger.Sync()
}

func run(ctx context.Context, cfg *config.Config) error {
	stores, err := database.OpenStores(ctx, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	var opts []bootcamps.Option
	geo, err := geocoder.New(cfg.Geocoder.Provider, cfg.Geocoder.APIKey)
	if err != nil {
		return err
	}
	if geo != nil {
		opts = append(opts, bootcamps.WithGeocoder(geo))
		logger.Infof("geocoding with %s", geo.Name())
	} else {
		logger.Warnf("geocoder disabled: radius search is unavailable and bootcamp locations come from the request")
	}

	photos, err := storage.NewPhotoStore(ctx, cfg.MinIO)
	switch {
	case err != nil:
		logger.Warnf("photo storage unavailable: %v", err)
	case photos != nil:
		opts = append(opts, bootcamps.WithPhotoStore(photos, cfg.Server.MaxFileUpload))
	}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	bs := bootcamps.NewService(stores.Bootcamps, opts...)
	a := &app{
		cfg:       cfg,
		stores:    stores,
		bootcamps: bs,
		courses:   courses.NewService(stores.Courses, bs),
		redis:     rdb,
		gatherer:  prometheus.DefaultGatherer,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(a),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("server running in %s mode on %s", cfg.Server.Environment, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Infof("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	if a.cfg.Server.Development() {
		r.Use(ginzap.Ginzap(logger.L(), time.RFC3339, true))
	}
	r.Use(ginzap.RecoveryWithZap(logger.L(), true))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length", "Location"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler())

	if rl := a.cfg.RateLimit; rl.Enabled {
		if rl.UseRedis && a.redis != nil {
			r.Use(middleware.RedisRateLimitMiddleware(a.redis, rl.RPS, rl.Burst, time.Duration(rl.WindowSeconds)*time.Second))
		} else {
			r.Use(middleware.RateLimitMiddleware(rl.RPS, rl.Burst))
		}
	}
	r.MaxMultipartMemory = a.cfg.Server.MaxFileUpload

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"database": a.stores.Ping(ctx) == nil}
		if a.cfg.RateLimit.Enabled && a.cfg.RateLimit.UseRedis {
			deps["redis"] = a.redis != nil && a.redis.Ping(ctx).Err() == nil
		}
		status, state := http.StatusOK, "ready"
		for _, ok := range deps {
			if !ok {
				status, state = http.StatusServiceUnavailable, "not_ready"
			}
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))

	handlers.RegisterSwagger(r)
	handlers.RegisterRoutes(r, a.bootcamps, a.courses)
	r.NoRoute(middleware.NotFound)
	return r
}
