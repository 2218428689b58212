package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"bloglist/internal/core/apperr"
	"bloglist/internal/core/auth"
	"bloglist/internal/domain"
	resp "bloglist/internal/transport/http/response"
)

const (
	KeyToken   = "token"
	KeyAccount = "account"

	bearerPrefix = "Bearer "
)

// AccountResolverSource 按 id 解析账号（AccountService 实现）
type AccountResolverSource interface {
	Resolve(ctx context.Context, id string) (*domain.Account, error)
}

// TokenExtractor 第一阶段：有 Bearer 头就把原始 token 放进上下文，没有也放行
func TokenExtractor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, bearerPrefix) {
			if tok := strings.TrimSpace(strings.TrimPrefix(ah, bearerPrefix)); tok != "" {
				c.Set(KeyToken, tok)
			}
		}
		c.Next()
	}
}

// AccountResolver 第二阶段：校验 token 并解析账号，任何一步失败直接中断
func AccountResolver(j *auth.JWTer, accounts AccountResolverSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := c.GetString(KeyToken)
		if tok == "" {
			resp.Fail(c, apperr.MissingToken())
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		a, err := accounts.Resolve(c.Request.Context(), claims.ID)
		if err != nil {
			resp.Fail(c, err)
			return
		}
		c.Set(KeyAccount, a)
		c.Next()
	}
}

// CurrentAccount 取 AccountResolver 写入的账号
func CurrentAccount(c *gin.Context) (*domain.Account, bool) {
	v, ok := c.Get(KeyAccount)
	if !ok {
		return nil, false
	}
	a, ok := v.(*domain.Account)
	return a, ok && a != nil
}
