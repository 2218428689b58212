package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"bloglist/internal/core/auth"
	"bloglist/internal/domain"
	"bloglist/internal/service"
	"bloglist/internal/stats"
	"bloglist/internal/transport/http/ez"
	"bloglist/internal/transport/http/handler"
	mdw "bloglist/internal/transport/http/middleware"
)

// --- /login ---

type loginModule struct {
	h     *handler.AuthHandler
	rps   float64
	burst int
}

func (m loginModule) Priority() int { return 10 }

func (m loginModule) Mount(api *gin.RouterGroup) {
	ez.Register(api, ez.Action[handler.LoginRequest, *service.LoginResult]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  ez.BindJSON,
		Handler: m.h.Login,
	}, mdw.RateLimitPerIP(rate.Limit(m.rps), m.burst))
}

// --- /accounts ---

type accountModule struct{ h *handler.AccountHandler }

func (m accountModule) Mount(api *gin.RouterGroup) {
	ez.Register(api, ez.Action[struct{}, []domain.AccountView]{
		Method:  http.MethodGet,
		Path:    "/accounts",
		Binder:  ez.BindNone,
		Handler: m.h.List,
	})
	ez.Register(api, ez.Action[handler.SignupRequest, *domain.AccountView]{
		Method:  http.MethodPost,
		Path:    "/accounts",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Handler: m.h.Create,
	})
}

// --- /posts, /stats ---

type postModule struct {
	h        *handler.PostHandler
	jwter    *auth.JWTer
	accounts mdw.AccountResolverSource
}

func (m postModule) Mount(api *gin.RouterGroup) {
	// 只读接口公开；写接口逐路由挂 AccountResolver
	resolve := mdw.AccountResolver(m.jwter, m.accounts)

	ez.Register(api, ez.Action[struct{}, []domain.PostView]{
		Method:  http.MethodGet,
		Path:    "/posts",
		Binder:  ez.BindNone,
		Handler: m.h.List,
	})
	ez.Register(api, ez.Action[domain.PostDraft, *domain.PostView]{
		Method:  http.MethodPost,
		Path:    "/posts",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Handler: m.h.Create,
	}, resolve)
	ez.Register(api, ez.Action[domain.PostPatch, *domain.PostView]{
		Method:  http.MethodPut,
		Path:    "/posts/:id",
		Binder:  ez.BindJSON,
		Handler: m.h.Update,
	}, resolve)
	ez.Register(api, ez.Action[struct{}, struct{}]{
		Method:  http.MethodDelete,
		Path:    "/posts/:id",
		Binder:  ez.BindNone,
		Status:  http.StatusNoContent,
		Handler: m.h.Delete,
	}, resolve)
	ez.Register(api, ez.Action[struct{}, stats.Summary]{
		Method:  http.MethodGet,
		Path:    "/stats",
		Binder:  ez.BindNone,
		Handler: m.h.Stats,
	})
}

// --- /testing/reset（仅 test 环境） ---

type testingModule struct{ h *handler.TestingHandler }

func (m testingModule) Priority() int { return 1000 }

func (m testingModule) Mount(api *gin.RouterGroup) {
	ez.Register(api, ez.Action[struct{}, struct{}]{
		Method:  http.MethodPost,
		Path:    "/testing/reset",
		Binder:  ez.BindNone,
		Status:  http.StatusNoContent,
		Handler: m.h.Reset,
	})
}
