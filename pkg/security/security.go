package security

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 中间件 仅允许白名单中的Origin；白名单包含 "*" 时放行所有来源（移动端调试）
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && (allowAll || originSet[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// KeyFunc 决定限流维度
type KeyFunc func(c *gin.Context) string

func KeyByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByRoute 同一IP在不同路由上分别计数，用于出题等高成本接口
func KeyByRoute(c *gin.Context) string {
	return c.ClientIP() + "|" + c.FullPath()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore 按 key 保存令牌桶
type limiterStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	expiry   time.Duration
}

func newLimiterStore(maxRequests int, window time.Duration) *limiterStore {
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	return &limiterStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
		expiry:   expiry,
	}
}

func (s *limiterStore) allow(key string, now time.Time) bool {
	s.mu.Lock()
	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	s.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// sweep 删除超过 expiry 未访问的条目
func (s *limiterStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > s.expiry {
			delete(s.visitors, key)
		}
	}
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// janitor 定期清理，ctx 取消后退出
func (s *limiterStore) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// RateLimiter 令牌桶限流，过期条目由后台协程清理，直到 ctx 取消
func RateLimiter(ctx context.Context, maxRequests int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	store := newLimiterStore(maxRequests, window)
	go store.janitor(ctx, time.Minute)

	return func(c *gin.Context) {
		if !store.allow(keyFn(c), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}
