package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/iliyamo/quickshow/internal/catalog"
	"github.com/iliyamo/quickshow/internal/model"
	"github.com/iliyamo/quickshow/internal/queue"
	"github.com/iliyamo/quickshow/internal/repository"
)

type fakeMovies struct {
	mu        sync.Mutex
	byID      map[string]model.Movie
	creates   int
	findErr   error
	createErr error
}

func newFakeMovies(existing ...model.Movie) *fakeMovies {
	f := &fakeMovies{byID: map[string]model.Movie{}}
	for _, m := range existing {
		f.byID[m.ID] = m
	}
	return f
}

func (f *fakeMovies) FindByID(_ context.Context, id string) (*model.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	m, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrMovieNotFound
	}
	return &m, nil
}

func (f *fakeMovies) Create(_ context.Context, m *model.Movie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[m.ID]; ok {
		return fmt.Errorf("%w: %s", repository.ErrDuplicateMovie, m.ID)
	}
	f.creates++
	f.byID[m.ID] = *m
	return nil
}

type fakeShows struct {
	mu    sync.Mutex
	saved []model.Show
	calls int
	err   error
}

func (f *fakeShows) InsertMany(_ context.Context, shows []model.Show) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	for i := range shows {
		if err := shows[i].Validate(); err != nil {
			return err
		}
	}
	for i := range shows {
		shows[i].ID = fmt.Sprintf("show-%d", len(f.saved)+1)
		f.saved = append(f.saved, shows[i])
	}
	return nil
}

type fakeCatalog struct {
	mu         sync.Mutex
	details    *catalog.MovieDetails
	credits    *catalog.MovieCredits
	detailsErr error
	creditsErr error
	calls      int
	// started, when set, receives once per call before the call returns.
	started chan string
	// release, when set, blocks every call until closed.
	release chan struct{}
}

func (f *fakeCatalog) enter(ctx context.Context, name string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- name
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeCatalog) MovieDetails(ctx context.Context, _ string) (*catalog.MovieDetails, error) {
	if err := f.enter(ctx, "details"); err != nil {
		return nil, err
	}
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	if f.details == nil {
		return &catalog.MovieDetails{}, nil
	}
	return f.details, nil
}

func (f *fakeCatalog) MovieCredits(ctx context.Context, _ string) (*catalog.MovieCredits, error) {
	if err := f.enter(ctx, "credits"); err != nil {
		return nil, err
	}
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	if f.credits == nil {
		return &catalog.MovieCredits{}, nil
	}
	return f.credits, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ShowsAddedEvent
	err    error
}

func (f *fakePublisher) PublishShowsAdded(_ context.Context, ev queue.ShowsAddedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}
