package middleware

import (
    "context"
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/1316346949/meeting-room-booking-system/internal/config"
)

// limiterScript refills and takes one token atomically.  Returns
// {allowed, remaining, retry_after_ms}.
var limiterScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// Decision is the outcome of one rate-limit check.
type Decision struct {
    Allowed    bool
    Remaining  int64
    RetryAfter time.Duration
}

// RateLimiter is a Redis token bucket keyed per caller.  A limiter with a
// nil client or a disabled config allows everything.
type RateLimiter struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
    now func() time.Time
}

func NewRateLimiter(cfg config.RateLimitConfig, rdb *redis.Client) *RateLimiter {
    return &RateLimiter{cfg: cfg, rdb: rdb, now: time.Now}
}

func (l *RateLimiter) enabled() bool { return l != nil && l.cfg.Enabled && l.rdb != nil }

// Allow takes one token from the bucket identified by key.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
    if !l.enabled() {
        return Decision{Allowed: true, Remaining: -1}, nil
    }
    args := []interface{}{
        l.now().UnixMilli(),
        l.cfg.Capacity,
        l.cfg.RefillTokens,
        l.cfg.RefillInterval.Milliseconds(),
        int64(l.cfg.TTL / time.Second),
    }
    vals, err := limiterScript.Run(ctx, l.rdb, []string{l.cfg.Prefix + ":" + key}, args...).Result()
    if err != nil {
        return Decision{}, fmt.Errorf("ratelimit %s: %w", key, err)
    }
    return parseDecision(vals)
}

func parseDecision(vals interface{}) (Decision, error) {
    arr, ok := vals.([]interface{})
    if !ok || len(arr) != 3 {
        return Decision{}, fmt.Errorf("ratelimit: unexpected script result %#v", vals)
    }
    return Decision{
        Allowed:    asInt64(arr[0]) == 1,
        Remaining:  asInt64(arr[1]),
        RetryAfter: time.Duration(asInt64(arr[2])) * time.Millisecond,
    }, nil
}

// Middleware limits requests per authenticated user.  Redis failures let
// the request through.
func (l *RateLimiter) Middleware() echo.MiddlewareFunc {
    if !l.enabled() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := rateKey(c)
            d, err := l.Allow(c.Request().Context(), key)
            if err != nil {
                c.Logger().Warnf("[ratelimit] %v", err)
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
            if !d.Allowed {
                secs := int(math.Ceil(d.RetryAfter.Seconds()))
                c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, map[string]any{
                    "error":       "too_many_requests",
                    "message":     "rate limit exceeded",
                    "retry_after": secs,
                })
            }
            return next(c)
        }
    }
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int: return int64(t)
    case float64: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

// rateKey buckets by user and route; anonymous callers fall back to their IP.
func rateKey(c echo.Context) string {
    uid := userID(c)
    who := "user:" + uid
    if uid == "anon" {
        ip := c.RealIP()
        if ip == "" { ip = "unknown" }
        who = "ip:" + ip
    }
    return strings.Join([]string{who, "route", c.Request().Method + " " + c.Path()}, ":")
}
