package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// Limits configures the Redis rate limiter shared by all modules.
// A nil Redis disables limiting.
type Limits struct {
	Redis *redis.Client
	Allow middleware.AllowFunc
}

func (l Limits) perMinute(max int, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(l.Redis, max, time.Minute, key, l.Allow)
}

// UserModule wires the account routes:
// Public: POST /user/register, POST /user/login, GET /user/:id, GET /user/activate/:token
// Protected: PUT /user/:id, GET /users/search
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, limits Limits) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/user/register", m.Limits.perMinute(10, middleware.KeyByIPAndPath()), m.Handler.Register)
	rg.POST("/user/login", m.Limits.perMinute(10, middleware.KeyByIPAndPath()), m.Handler.Login)
	rg.GET("/user/activate/:token", m.Limits.perMinute(30, middleware.KeyByIPAndPath()), m.Handler.Activate)
	rg.GET("/user/:id", m.Limits.perMinute(120, middleware.KeyByIP()), m.Handler.GetUser)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT), m.Limits.perMinute(120, middleware.KeyByUserID()))
	{
		auth.PUT("/user/:id", m.Handler.Update)
		auth.GET("/users/search", m.Handler.Search)
	}
}
