package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bloglist/internal/core/apperr"
	resp "bloglist/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/login"、"/posts/:id"
	Binder  Binder
	Status  int // 成功状态码，默认 200；204 不写 body
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register 在分组上注册动作；mw 只作用于该路由
func Register[I any, O any](g gin.IRoutes, a Action[I, O], mw ...gin.HandlerFunc) {
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			resp.Fail(c, err)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Fail(c, err)
			return
		}

		switch a.Status {
		case 0, http.StatusOK:
			resp.OK(c, out)
		case http.StatusNoContent:
			resp.NoContent(c)
		default:
			c.JSON(a.Status, out)
		}
	}

	handlers := append(append([]gin.HandlerFunc{}, mw...), h)
	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, handlers...)
	case http.MethodPut:
		g.PUT(a.Path, handlers...)
	case http.MethodDelete:
		g.DELETE(a.Path, handlers...)
	default: // 默认 POST
		g.POST(a.Path, handlers...)
	}
}

// bind 空 body 视为空入参，由领域校验给出具体错误；格式错误归为 ValidationError
func bind(c *gin.Context, b Binder, in any) error {
	var err error
	switch b {
	case BindJSON:
		err = c.ShouldBindJSON(in)
	case BindQuery:
		err = c.ShouldBindQuery(in)
	default:
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.Validation(err.Error())
}
