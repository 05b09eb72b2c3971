package handler // handler package contains the show administration handlers

import (
    "context"       // context carries request deadlines into the catalog and service
    "encoding/json" // json.RawMessage holds catalog entries verbatim
    "errors"        // errors.Is maps service errors to status codes
    "log/slog"      // slog records failures with request details
    "net/http"      // http defines status codes

    "github.com/labstack/echo/v4" // echo provides the web context and JSON helpers

    "github.com/iliyamo/quickshow/internal/model"   // model defines the add-show request shape
    "github.com/iliyamo/quickshow/internal/service" // service runs the provisioning workflow
)

// NowPlayer lists the movies currently in theatres.
type NowPlayer interface {
    NowPlaying(ctx context.Context) ([]json.RawMessage, error)
}

// ShowAdder provisions shows for a movie.
type ShowAdder interface {
    AddShow(ctx context.Context, req model.AddShowRequest) ([]model.Show, error)
}

// ShowHandler serves the /api/show endpoints.
type ShowHandler struct {
    Catalog NowPlayer
    Shows   ShowAdder
    Log     *slog.Logger
}

// NewShowHandler constructs a ShowHandler and panics if a dependency is nil.
func NewShowHandler(cat NowPlayer, shows ShowAdder, logger *slog.Logger) *ShowHandler {
    if cat == nil || shows == nil {
        panic("nil dependency passed to NewShowHandler")
    }
    if logger == nil {
        logger = slog.Default()
    }
    return &ShowHandler{Catalog: cat, Shows: shows, Log: logger}
}

// NowPlaying handles GET /api/show/now-playing and forwards the catalog's
// now-playing results unchanged.
func (h *ShowHandler) NowPlaying(c echo.Context) error {
    movies, err := h.Catalog.NowPlaying(c.Request().Context()) // one catalog call, no retry
    if err != nil {
        h.Log.Error("now playing failed", "error", err)
        return fail(c, http.StatusInternalServerError, "Failed to fetch now playing movies", err)
    }
    return c.JSON(http.StatusOK, map[string]any{"success": true, "movies": movies})
}

// AddShow handles POST /api/show/add.  Body:
//
//  {"movieId": "550", "showsInput": [{"date": "2025-07-24", "time": ["10:00", "14:30"]}], "showPrice": 12}
func (h *ShowHandler) AddShow(c echo.Context) error {
    var req model.AddShowRequest
    if err := c.Bind(&req); err != nil { // shape mismatch, e.g. time not a list
        return fail(c, http.StatusBadRequest, "Invalid request body", nil)
    }
    shows, err := h.Shows.AddShow(c.Request().Context(), req)
    switch {
    case errors.Is(err, service.ErrMissingField):
        return fail(c, http.StatusBadRequest, "Missing required fields", nil)
    case err != nil:
        h.Log.Error("add show failed", "movie_id", req.MovieID, "error", err)
        return fail(c, http.StatusInternalServerError, "Failed to add show", err)
    }
    h.Log.Info("shows added", "movie_id", req.MovieID, "count", len(shows))
    return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Show Added Successfully"})
}

// fail writes the error envelope; err, when set, is exposed as "error".
func fail(c echo.Context, status int, msg string, err error) error {
    body := map[string]any{"success": false, "message": msg}
    if err != nil {
        body["error"] = err.Error()
    }
    return c.JSON(status, body)
}
