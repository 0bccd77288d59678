package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
)

func RequestLogger(logger log.Logger) gin.HandlerFunc {
	helper := log.NewHelper(logger)
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"msg", "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if uid := c.GetUint("user_id"); uid != 0 {
			kv = append(kv, "user_id", uid)
		}
		switch {
		case status >= 500:
			helper.Errorw(kv...)
		case status >= 400:
			helper.Warnw(kv...)
		default:
			helper.Infow(kv...)
		}
	}
}
