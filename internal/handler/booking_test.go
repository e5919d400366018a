package handler_test

import (
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/labstack/gommon/log"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/1316346949/meeting-room-booking-system/internal/handler"
    "github.com/1316346949/meeting-room-booking-system/internal/repository/memstore"
    "github.com/1316346949/meeting-room-booking-system/internal/router"
    "github.com/1316346949/meeting-room-booking-system/internal/service"
    "github.com/1316346949/meeting-room-booking-system/internal/utils"
)

const secret = "handler-test-secret"

type api struct {
    t *testing.T
    e *echo.Echo
}

func newAPI(t *testing.T) *api {
    t.Helper()
    mem := memstore.New()
    mem.SeedDemo()
    logger := log.New("test")
    logger.SetLevel(log.OFF)
    svc := service.NewBookingService(mem, mem, mem, logger, service.Options{MaxPageSize: 20})

    e := echo.New()
    e.Logger = logger
    router.RegisterRoutes(e, nil)
    router.RegisterBookings(e, handler.NewBookingHandler(svc), secret, router.BookingMiddleware{})
    return &api{t: t, e: e}
}

func (a *api) do(method, target, body string, userID uint64, role string) *httptest.ResponseRecorder {
    a.t.Helper()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    if body != "" {
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    }
    if role != "" {
        tok, err := utils.NewAccessToken(secret, userID, role, time.Minute)
        require.NoError(a.t, err)
        req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
    }
    rec := httptest.NewRecorder()
    a.e.ServeHTTP(rec, req)
    return rec
}

func (a *api) create(userID, roomID uint64, start, end string) *httptest.ResponseRecorder {
    body := fmt.Sprintf(`{"room_id":%d,"start_time":%q,"end_time":%q,"note":"sync"}`, roomID, start, end)
    return a.do(http.MethodPost, "/v1/bookings", body, userID, "USER")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
    t.Helper()
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
    a := newAPI(t)
    assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/healthz", "", 0, "").Code)
    assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/readyz", "", 0, "").Code)
}

func TestCreateBooking_HTTP(t *testing.T) {
    a := newAPI(t)

    rec := a.create(1, 1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z")
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    var created struct{ ID uint64 }
    decode(t, rec, &created)
    assert.NotZero(t, created.ID)

    cases := []struct {
        name       string
        room       uint64
        start, end string
        want       int
    }{
        {"conflict", 1, "2026-09-01T09:30:00Z", "2026-09-01T10:30:00Z", http.StatusConflict},
        {"adjacent", 1, "2026-09-01T10:00:00Z", "2026-09-01T11:00:00Z", http.StatusCreated},
        {"offset zone overlaps", 1, "2026-09-01T17:30:00+08:00", "2026-09-01T18:30:00+08:00", http.StatusConflict},
        {"inverted", 1, "2026-09-01T12:00:00Z", "2026-09-01T11:00:00Z", http.StatusBadRequest},
        {"unknown room", 42, "2026-09-01T12:00:00Z", "2026-09-01T13:00:00Z", http.StatusNotFound},
        {"bad timestamp", 1, "tomorrow", "2026-09-01T13:00:00Z", http.StatusBadRequest},
        {"sub-millisecond interval", 1, "2026-09-01T14:00:00.0001Z", "2026-09-01T14:00:00.0004Z", http.StatusBadRequest},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := a.create(2, tc.room, tc.start, tc.end)
            assert.Equal(t, tc.want, rec.Code, rec.Body.String())
        })
    }
}

func TestCreateBooking_UnknownUser(t *testing.T) {
    a := newAPI(t)
    rec := a.create(404, 1, "2026-09-01T09:00:00Z", "2026-09-01T10:00:00Z")
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBooking_RequiresToken(t *testing.T) {
    a := newAPI(t)
    rec := a.do(http.MethodPost, "/v1/bookings", `{"room_id":1}`, 0, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLifecycle_HTTP(t *testing.T) {
    a := newAPI(t)
    rec := a.create(1, 2, "2026-09-02T09:00:00Z", "2026-09-02T10:00:00Z")
    require.Equal(t, http.StatusCreated, rec.Code)
    var created struct{ ID uint64 }
    decode(t, rec, &created)
    path := fmt.Sprintf("/v1/bookings/%d", created.ID)

    // Only admins decide.
    assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, path+"/approve", "", 1, "USER").Code)

    rec = a.do(http.MethodPost, path+"/approve", "", 9, "ADMIN")
    require.Equal(t, http.StatusOK, rec.Code)
    var st struct{ Status string }
    decode(t, rec, &st)
    assert.Equal(t, "APPROVED", st.Status)

    assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, path+"/reject", "", 9, "ADMIN").Code)
    assert.Equal(t, http.StatusOK, a.do(http.MethodPost, path+"/unbind", "", 9, "ADMIN").Code)
    assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, path+"/unbind", "", 9, "ADMIN").Code)

    rec = a.do(http.MethodGet, path, "", 1, "USER")
    require.Equal(t, http.StatusOK, rec.Code)
    var got struct {
        Item struct {
            Status string `json:"status"`
            RoomID uint64 `json:"room_id"`
            Note   string `json:"note"`
        } `json:"item"`
    }
    decode(t, rec, &got)
    assert.Equal(t, "UNBOUND", got.Item.Status)
    assert.Equal(t, uint64(2), got.Item.RoomID)
    assert.Equal(t, "sync", got.Item.Note)

    assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/v1/bookings/999/approve", "", 9, "ADMIN").Code)
    assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/v1/bookings/999", "", 1, "USER").Code)
    assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/v1/bookings/abc", "", 1, "USER").Code)
}

func TestListBookings_HTTP(t *testing.T) {
    a := newAPI(t)
    require.Equal(t, http.StatusCreated, a.create(1, 1, "2026-09-03T09:00:00Z", "2026-09-03T10:00:00Z").Code)
    require.Equal(t, http.StatusCreated, a.create(2, 2, "2026-09-03T09:00:00Z", "2026-09-03T10:00:00Z").Code)
    require.Equal(t, http.StatusCreated, a.create(2, 3, "2026-09-04T09:00:00Z", "2026-09-04T10:00:00Z").Code)

    rec := a.do(http.MethodGet, "/v1/bookings?page_no=1&page_size=10&username=lisi&range_start=2026-09-03T09:30:00Z", "", 1, "USER")
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    var page struct {
        Items []struct {
            ID   uint64 `json:"id"`
            Room struct {
                Name string `json:"name"`
            } `json:"room"`
            User struct {
                Username string `json:"username"`
            } `json:"user"`
        } `json:"items"`
        Total    int `json:"total"`
        PageNo   int `json:"page_no"`
        PageSize int `json:"page_size"`
    }
    decode(t, rec, &page)
    assert.Equal(t, 1, page.Total)
    require.Len(t, page.Items, 1)
    assert.Equal(t, "Venus", page.Items[0].Room.Name)
    assert.Equal(t, "lisi", page.Items[0].User.Username)
    assert.Equal(t, 1, page.PageNo)
    assert.Equal(t, 10, page.PageSize)

    rec = a.do(http.MethodGet, "/v1/bookings", "", 1, "USER")
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    decode(t, rec, &page)
    assert.Equal(t, 3, page.Total)
    assert.Len(t, page.Items, 1)
    assert.Equal(t, 1, page.PageNo)
    assert.Equal(t, 1, page.PageSize)

    for _, q := range []string{
        "page_size=-1",
        "page_no=x&page_size=1",
        "page_no=0&page_size=1",
        "page_no=1&page_size=20",
        "page_no=1&page_size=1&range_end=2026-09-03T09:00:00Z",
        "page_no=1&page_size=1&range_start=yesterday",
    } {
        rec := a.do(http.MethodGet, "/v1/bookings?"+q, "", 1, "USER")
        assert.Equal(t, http.StatusBadRequest, rec.Code, q)
    }
}
