package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/quickshow/internal/handler"
	"github.com/iliyamo/quickshow/internal/model"
	"github.com/iliyamo/quickshow/internal/utils"
)

type stubCatalog struct{}

func (stubCatalog) NowPlaying(context.Context) ([]json.RawMessage, error) {
	return []json.RawMessage{json.RawMessage(`{"id":1}`)}, nil
}

type stubShows struct{ calls int }

func (s *stubShows) AddShow(context.Context, model.AddShowRequest) ([]model.Show, error) {
	s.calls++
	return nil, nil
}

func TestShowRoutesRequireAdmin(t *testing.T) {
	shows := &stubShows{}
	h := handler.NewShowHandler(stubCatalog{}, shows, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := echo.New()
	RegisterRoutes(e)
	cached := 0
	var limitedAs []any
	limit := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { limitedAs = append(limitedAs, c.Get("user_id")); return next(c) }
	}
	RegisterShows(e, h, "secret", limit, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { cached++; return next(c) }
	})

	admin, _ := utils.NewAccessToken("secret", "ops", AdminRole, 5)
	send := func(method, path, token, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodGet, "/healthz", "", ""); code != http.StatusOK {
		t.Fatalf("healthz = %d", code)
	}
	if code := send(http.MethodGet, "/api/show/now-playing", "", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous now-playing = %d", code)
	}
	if code := send(http.MethodGet, "/api/show/now-playing", admin.Token, ""); code != http.StatusOK {
		t.Fatalf("admin now-playing = %d", code)
	}
	if code := send(http.MethodPost, "/api/show/add", admin.Token, `{}`); code != http.StatusOK {
		t.Fatalf("admin add = %d", code)
	}
	if cached != 1 || shows.calls != 1 {
		t.Fatalf("cache middleware ran %d times, add called %d times", cached, shows.calls)
	}
	// The anonymous call is rejected before the limiter; the admin calls
	// reach it with the token subject already set.
	if len(limitedAs) != 2 || limitedAs[0] != "ops" || limitedAs[1] != "ops" {
		t.Fatalf("limiter saw user ids %v", limitedAs)
	}
}
