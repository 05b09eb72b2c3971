// Package repository defines error types that are reused across the movie and
// show repositories of both storage backends.  These sentinel values let the
// service layer tell "not there yet" apart from real storage failures.
package repository

import "errors"

// ErrMovieNotFound is returned by FindByID when no movie has the given id.
// The provisioning workflow treats it as "fetch from the catalog".
var ErrMovieNotFound = errors.New("movie not found")

// ErrDuplicateMovie is returned by Create when a movie with the same id
// already exists, which happens when two requests race through the
// check-then-create window for the same unknown movie.
var ErrDuplicateMovie = errors.New("movie already exists")
