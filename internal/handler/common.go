package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "math"    // math bounds float claims before conversion
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id stored by JWTAuth and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        if t > 0 {
            return uint64(t), nil
        }
    case int64:
        if t > 0 {
            return uint64(t), nil
        }
    case float64: // JSON numbers in MapClaims decode as float64
        if t > 0 && t < math.MaxUint64 && t == math.Trunc(t) {
            return uint64(t), nil
        }
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil && n > 0 {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}
