// Package service holds the show provisioning workflow: make sure the movie
// is cached locally, then materialize one show per requested date and time.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/quickshow/internal/catalog"
	"github.com/iliyamo/quickshow/internal/model"
	"github.com/iliyamo/quickshow/internal/queue"
	"github.com/iliyamo/quickshow/internal/repository"
)

// Movie defaults applied when the catalog omits a field.
const (
	DefaultTitle    = "Untitled"
	DefaultOverview = "No overview available."
)

// MovieStore finds and creates cached movies.
type MovieStore interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
}

// ShowStore persists shows in bulk, all or nothing.
type ShowStore interface {
	InsertMany(ctx context.Context, shows []model.Show) error
}

// Catalog is the subset of the catalog client the workflow needs.
type Catalog interface {
	MovieDetails(ctx context.Context, movieID string) (*catalog.MovieDetails, error)
	MovieCredits(ctx context.Context, movieID string) (*catalog.MovieCredits, error)
}

// EventPublisher receives a notification after shows are persisted.
type EventPublisher interface {
	PublishShowsAdded(ctx context.Context, event queue.ShowsAddedEvent) error
}

// ShowService provisions shows.
type ShowService struct {
	movies  MovieStore
	shows   ShowStore
	catalog Catalog
	events  EventPublisher
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time
}

// Option customizes a ShowService.
type Option func(*ShowService)

// WithEvents publishes a shows.added event after every successful insert.
func WithEvents(p EventPublisher) Option { return func(s *ShowService) { s.events = p } }

// WithLocation sets the zone used to interpret submitted dates and times.
func WithLocation(loc *time.Location) Option { return func(s *ShowService) { s.loc = loc } }

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option { return func(s *ShowService) { s.log = l } }

// NewShowService wires the workflow.  It panics if a required dependency is nil.
func NewShowService(movies MovieStore, shows ShowStore, cat Catalog, opts ...Option) *ShowService {
	if movies == nil || shows == nil || cat == nil {
		panic("nil dependency passed to NewShowService")
	}
	s := &ShowService{
		movies:  movies,
		shows:   shows,
		catalog: cat,
		loc:     time.UTC,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddShow runs the provisioning workflow and returns the persisted shows.
//
// The movie existence check and the movie insert are separate calls, so two
// concurrent requests for the same unknown movie can both try to create it;
// the loser fails with a PersistenceError wrapping
// repository.ErrDuplicateMovie.  Repeating an identical request creates the
// same shows again.
func (s *ShowService) AddShow(ctx context.Context, req model.AddShowRequest) ([]model.Show, error) {
	if req.MovieID == "" || req.ShowsInput == nil || req.ShowPrice == nil || *req.ShowPrice == 0 {
		return nil, ErrMissingField
	}
	price := *req.ShowPrice

	movie, err := s.ensureMovie(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}

	shows, err := ExpandShows(req.MovieID, req.ShowsInput, price, s.loc)
	if err != nil {
		return nil, err
	}
	if len(shows) == 0 {
		return shows, nil
	}
	if err := s.shows.InsertMany(ctx, shows); err != nil {
		return nil, &PersistenceError{Op: "insert shows", Err: err}
	}
	s.publish(ctx, movie, shows, price)
	return shows, nil
}

// ensureMovie returns the cached movie, fetching detail and credits from the
// catalog concurrently and caching the result when it is not stored yet.
func (s *ShowService) ensureMovie(ctx context.Context, id string) (*model.Movie, error) {
	m, err := s.movies.FindByID(ctx, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, repository.ErrMovieNotFound) {
		return nil, &PersistenceError{Op: "find movie", Err: err}
	}

	s.log.Info("fetching movie from catalog", "movie_id", id)
	var (
		details *catalog.MovieDetails
		credits *catalog.MovieCredits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = s.catalog.MovieDetails(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = s.catalog.MovieCredits(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m = BuildMovie(id, details, credits)
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, &PersistenceError{Op: "create movie", Err: err}
	}
	return m, nil
}

// BuildMovie assembles a Movie from catalog payloads, substituting defaults
// for anything missing.  Either payload may be nil.
func BuildMovie(id string, d *catalog.MovieDetails, c *catalog.MovieCredits) *model.Movie {
	if d == nil {
		d = &catalog.MovieDetails{}
	}
	m := &model.Movie{
		ID:               id,
		Title:            orDefault(d.Title, DefaultTitle),
		Overview:         orDefault(d.Overview, DefaultOverview),
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		ReleaseDate:      d.ReleaseDate,
		OriginalLanguage: d.OriginalLanguage,
		Tagline:          d.Tagline,
		Genres:           d.Genres,
		VoteAverage:      d.VoteAverage,
		Runtime:          d.Runtime,
	}
	if m.Genres == nil {
		m.Genres = []model.Genre{}
	}
	if c != nil && c.Cast != nil {
		m.Casts = c.Cast
	} else {
		m.Casts = []model.CastMember{}
	}
	return m
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (s *ShowService) publish(ctx context.Context, movie *model.Movie, shows []model.Show, price float64) {
	if s.events == nil {
		return
	}
	ev := queue.ShowsAddedEvent{
		MovieID:       movie.ID,
		MovieTitle:    movie.Title,
		ShowIDs:       make([]string, 0, len(shows)),
		ShowDateTimes: make([]string, 0, len(shows)),
		ShowPrice:     price,
		AddedAt:       s.now().UTC().Format(time.RFC3339),
	}
	for _, sh := range shows {
		ev.ShowIDs = append(ev.ShowIDs, sh.ID)
		ev.ShowDateTimes = append(ev.ShowDateTimes, sh.ShowDateTime.Format(time.RFC3339))
	}
	// The request may finish before the broker answers.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.events.PublishShowsAdded(pctx, ev); err != nil {
		s.log.Warn("publish shows.added failed", "movie_id", movie.ID, "error", err)
	}
}
