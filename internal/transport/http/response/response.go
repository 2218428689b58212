package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloglist/internal/core/apperr"
)

// ErrorBody 统一错误体：{"error": "..."}
type ErrorBody struct {
	Error string `json:"error"`
}

// Error 构造错误体（可以传自定义 msg 覆盖默认）
func Error(status int, customMsg string) ErrorBody {
	msg := CodeMsgMap[status]
	if customMsg != "" {
		msg = customMsg
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return ErrorBody{Error: msg}
}

func OK(c *gin.Context, data any)      { c.JSON(http.StatusOK, data) }
func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }
func NoContent(c *gin.Context)         { c.Status(http.StatusNoContent) }

// Fail 边界层唯一的错误出口：分类 -> 状态码 + 错误体，并中断后续 handler
func Fail(c *gin.Context, err error) {
	status, msg := apperr.Classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, Error(status, msg))
}
