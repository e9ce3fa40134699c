// Package app wires the configuration, databases and routes together
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giftlink/backend/aws"
	"giftlink/backend/db"
	"giftlink/backend/internal"
	"giftlink/backend/internal/service"
	"giftlink/backend/internal/store"
	"giftlink/backend/pkg/middleware"
	"giftlink/backend/pkg/security"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type App struct {
	Router  *gin.Engine
	Deps    *internal.Deps
	closers []func(context.Context) error
}

// New builds the whole application from the loaded configuration. The
// database connection is opened once here and reused for the lifetime
// of the process.
func New(ctx context.Context) (*App, error) {
	if err := makeLogger(); err != nil {
		return nil, err
	}

	a := &App{}

	tokens, err := security.NewTokenIssuer(viper.GetString("jwt.secret"), viper.GetDuration("jwt.validity"))
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer, %w", err)
	}

	hasher, err := security.NewPasswordHasher(viper.GetString("security.password_hash"))
	if err != nil {
		return nil, err
	}

	d := &internal.Deps{
		Tokens:        tokens,
		Hasher:        hasher,
		MaxUploadSize: viper.GetInt64("upload.max_size"),
	}

	if err := a.openStores(ctx, d); err != nil {
		return nil, err
	}

	if viper.GetBool("storage.enabled") {
		s3, err := aws.NewS3(ctx, aws.S3ConfigFromViper())
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		d.Images = service.NewUploader(s3, viper.GetString("storage.public_url"))
	}

	if path := viper.GetString("gifts.seed_file"); path != "" {
		n, err := service.SeedGifts(ctx, d.Gifts, path)
		if err != nil {
			zap.L().Error("Failed to seed gifts", zap.Error(err), zap.String("path", path))
		} else if n > 0 {
			zap.L().Info("Seeded gifts", zap.Int("count", n), zap.String("path", path))
		}
	}

	opts := Options{
		CORSOrigins: splitOrigins(viper.GetString("host.cors")),
		RequireAuth: viper.GetBool("gifts.require_auth"),
		RateLimit:   viper.GetInt("security.rate_limit"),
		CacheTTL:    viper.GetDuration("cache.ttl"),
		Turnstile: middleware.TurnstileConfig{
			Enabled: viper.GetBool("cloudflare.turnstile.enabled"),
			Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
		},
	}

	cacheStore, closeCache, err := newCacheStore(viper.GetString("cache.type"), viper.GetString("cache.redis_url"))
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	opts.Cache = cacheStore
	if closeCache != nil {
		a.closers = append(a.closers, closeCache)
	}

	a.Deps = d
	a.Router = NewRouter(ctx, d, opts)

	return a, nil
}

// splitOrigins turns the comma separated host.cors value into a list,
// skipping empty entries
func splitOrigins(v string) []string {
	var origins []string

	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}

// newCacheStore returns the response cache for kind, nil for "none". The
// returned close function is only set when there is a connection to release.
func newCacheStore(kind, redisURL string) (persist.CacheStore, func(context.Context) error, error) {
	switch kind {
	case "memory":
		return persist.NewMemoryStore(time.Minute), nil, nil
	case "redis":
		ro, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url, %w", err)
		}

		rdb := redis.NewClient(ro)
		return persist.NewRedisStore(rdb), func(context.Context) error { return rdb.Close() }, nil
	default:
		return nil, nil, nil
	}
}

func (a *App) openStores(ctx context.Context, d *internal.Deps) error {
	if viper.GetString("db.type") == "mongo" {
		database, err := db.NewMongo(ctx)
		if err != nil {
			return err
		}

		a.closers = append(a.closers, database.Client().Disconnect)
		d.Users = store.NewMongoUsers(database)
		d.Gifts = store.NewMongoGifts(database)
		return nil
	}

	gdb, err := db.New()
	if err != nil {
		return err
	}

	a.closers = append(a.closers, func(context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	d.Users = store.NewGormUsers(gdb)
	d.Gifts = store.NewGormGifts(gdb)
	return nil
}

// Close releases the database and cache connections
func (a *App) Close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func makeLogger() error {
	level, err := zapcore.ParseLevel(viper.GetString("app.log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level, %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}
