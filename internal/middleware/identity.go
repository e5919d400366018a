package middleware

// identity.go turns the caller stored by JWTAuth into a stable string used
// in rate-limit keys.

import (
    "fmt"
    "math"
    "strconv"

    "github.com/labstack/echo/v4"
)

// userID returns the authenticated subject as a string, or "anon" when the
// request carries none.
func userID(c echo.Context) string {
    switch v := c.Get(ctxUserID).(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
            return strconv.FormatUint(uint64(v), 10)
        }
        return strconv.FormatFloat(v, 'g', -1, 64)
    case uint64:
        return strconv.FormatUint(v, 10)
    case nil:
    default:
        return fmt.Sprint(v)
    }
    return "anon"
}
