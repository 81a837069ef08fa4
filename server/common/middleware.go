package common

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"maestro-dashboard/logging"
	"net/http"
	"time"
)

// LogRequest 记录每个请求的方法、路径、状态码与耗时。
func LogRequest(ctx *gin.Context) {
	start := time.Now()

	ctx.Next()

	logging.Default().Infof("%s %s -> %d (%s) from %s",
		ctx.Request.Method,
		ctx.Request.URL.RequestURI(),
		ctx.Writer.Status(),
		time.Since(start),
		ctx.ClientIP())
}

// Recovery 捕获处理过程中的 panic，返回 500 与统一的错误响应。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		logging.Default().Errorf("panic recovered on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, recovered)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, MakeUnknownErrorResp())
	})
}

// RateLimit 全局限流，超出时返回 429；limit 不大于 0 时不限流。
func RateLimit(limit float64, burst int) gin.HandlerFunc {
	if limit <= 0 {
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}

	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			logging.Default().Warnf("rate limit exceeded: %s %s", ctx.Request.Method, ctx.Request.URL.Path)
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests,
				MakeErrorResp(CodeTooManyRequest, "too many requests", nil))
			return
		}
		ctx.Next()
	}
}
