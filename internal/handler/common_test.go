package handler

import (
    "math"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestGetUserID(t *testing.T) {
    e := echo.New()
    cases := []struct {
        name  string
        value any
        want  uint64
        ok    bool
    }{
        {"uint64", uint64(7), 7, true},
        {"json number", float64(42), 42, true},
        {"numeric string", "19", 19, true},
        {"zero", float64(0), 0, false},
        {"negative", float64(-3), 0, false},
        {"fraction", 1.5, 0, false},
        {"too large", 1e20, 0, false},
        {"max float", math.MaxFloat64, 0, false},
        {"infinity", math.Inf(1), 0, false},
        {"nan", math.NaN(), 0, false},
        {"missing", nil, 0, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
            if tc.value != nil {
                c.Set("user_id", tc.value)
            }
            got, err := getUserID(c)
            if !tc.ok {
                assert.Error(t, err)
                return
            }
            require.NoError(t, err)
            assert.Equal(t, tc.want, got)
        })
    }
}
