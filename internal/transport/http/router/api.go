package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bloglist/internal/core/auth"
	"bloglist/internal/core/server"
	"bloglist/internal/service"
	"bloglist/internal/transport/http/handler"
	mdw "bloglist/internal/transport/http/middleware"
	resp "bloglist/internal/transport/http/response"
)

type Limits struct {
	RPS          float64
	Burst        int
	Concurrency  int64
	MaxBodyBytes int64
	Timeout      time.Duration
	LoginRPS     float64 // 按 IP
	LoginBurst   int
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.Concurrency <= 0 {
		l.Concurrency = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	if l.LoginRPS <= 0 {
		l.LoginRPS = 5
	}
	if l.LoginBurst <= 0 {
		l.LoginBurst = 10
	}
	return l
}

type Deps struct {
	Log      *zap.Logger
	JWTer    *auth.JWTer
	Auth     *service.AuthService
	Accounts *service.AccountService
	Posts    *service.PostService
	Reset    *service.ResetService // nil 则不挂载 /api/testing/reset
	Limits   Limits
}

func NewAPIEngine(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	lim := d.Limits.withDefaults()

	r := server.NewRouter(d.Log)

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.Concurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout),
		mdw.SimpleRecovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		mdw.TokenExtractor(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	mods := []Module{
		loginModule{h: handler.NewAuthHandler(d.Auth), rps: lim.LoginRPS, burst: lim.LoginBurst},
		accountModule{h: handler.NewAccountHandler(d.Accounts)},
		postModule{h: handler.NewPostHandler(d.Posts), jwter: d.JWTer, accounts: d.Accounts},
	}
	if d.Reset != nil {
		mods = append(mods, testingModule{h: handler.NewTestingHandler(d.Reset)})
		d.Log.Warn("testing reset endpoint enabled")
	}
	MountAll(api, mods...)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, "unknown endpoint"))
	})
	return r
}
