package app

import (
	"context"
	"time"

	"giftlink/backend/app/gift"
	"giftlink/backend/app/image"
	"giftlink/backend/app/root"
	"giftlink/backend/app/user"
	"giftlink/backend/internal"
	"giftlink/backend/pkg/middleware"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options are the router settings that come from the configuration
type Options struct {
	// CORSOrigins lists the allowed cross-origin callers. Empty disables CORS.
	CORSOrigins []string
	// RequireAuth guards gift details and gift creation with the JWT middleware.
	// Otherwise those routes accept anonymous requests.
	RequireAuth bool
	RateLimit   int // Requests per second per IP, 0 disables limiting
	Turnstile   middleware.TurnstileConfig
	// Cache is used for the gift list and search responses when set
	Cache    persist.CacheStore
	CacheTTL time.Duration
}

// NewRouter builds the API routes. Background work started for the router,
// like the rate limiter cleanup, stops when ctx is done.
func NewRouter(ctx context.Context, d *internal.Deps, o Options) *gin.Engine {
	router := gin.New()

	// Without any allowed origin only same-origin requests work, cors.New
	// refuses such a config
	if len(o.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Email", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)
	rateLimiter := middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	})

	giftAuth := jwt
	if !o.RequireAuth {
		giftAuth = middleware.NewOptionalJWTMiddleware(d.Tokens)
	}

	cached := func(c *gin.Context) { c.Next() }
	if o.Cache != nil && o.CacheTTL > 0 {
		cached = cache.CacheByRequestURI(o.Cache, o.CacheTTL)
	}

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new user and returns a JWT token
		a.POST("/register", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/auth/login		-> Logs in a user and returns a JWT token
		a.POST("/login", turnstile, func(c *gin.Context) { user.UserLogin(c, d) })

		// PUT /api/auth/update		-> Updates the profile of the user in the Email header
		a.PUT("/update", jwt, func(c *gin.Context) { user.UserUpdate(c, d) })
	}

	g := m.Group("/gifts")
	{
		// GET /api/gifts		-> Returns every gift
		g.GET("", cached, func(c *gin.Context) { gift.GiftList(c, d) })

		// GET /api/gifts/:id		-> Returns a gift by its ID
		g.GET("/:id", giftAuth, func(c *gin.Context) { gift.GiftFetch(c, d) })

		// POST /api/gifts		-> Creates a new gift
		g.POST("", giftAuth, middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { gift.GiftCreate(c, d) })
	}

	// GET /api/search		-> Filters gifts by name, category, condition and age
	m.GET("/search", cached, func(c *gin.Context) { gift.GiftSearch(c, d) })

	if d.Images != nil {
		// POST /api/images		-> Uploads a gift image to object storage
		m.POST("/images", jwt, middleware.BodySizeLimiter(d.MaxUploadSize+(1<<20)), func(c *gin.Context) { image.ImageUpload(c, d) })
	}

	return router
}
