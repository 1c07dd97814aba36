package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/identigo/backend/api/handler"
)

type Handlers struct {
	User   *apiHandler.UserHandler
	Auth   *apiHandler.AuthHandler
	Health *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New wires the route table. basicAuth and bearerAuth only attach identity;
// the handlers behind them decide whether an anonymous request is allowed.
func New(handlers Handlers, basicAuth, bearerAuth Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/1.0/users", handlers.User.Register)
	r.POST("/api/1.0/users/token/{token}", handlers.User.Activate)

	r.GET("/api/1.0/users", basicAuth(handlers.User.List))
	r.GET("/api/1.0/users/{id}", handlers.User.Get)
	r.PUT("/api/1.0/users/{id}", bearerAuth(handlers.User.Update))

	r.POST("/api/1.0/auth", handlers.Auth.Login)

	return r
}
