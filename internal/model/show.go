package model

import (
    "errors"
    "time"
)

// Show represents one scheduled screening of a movie at a specific date and
// time for a given price.  Shows are created in bulk by the provisioning
// workflow; seat occupation is managed elsewhere.
//
// Fields:
//  ID            – store-assigned identifier (ObjectID hex or numeric id).
//  Movie         – Movie.ID of the screened movie.
//  ShowDateTime  – calendar date combined with the time of day.
//  ShowPrice     – ticket price as submitted.
//  OccupiedSeats – seat label → occupant id.  Starts empty and must be
//                  persisted as an empty mapping, never as null or absent;
//                  the bson tag has no omitempty.
type Show struct {
    ID            string            `json:"_id" bson:"-"`
    Movie         string            `json:"movie" bson:"movie"`
    ShowDateTime  time.Time         `json:"showDateTime" bson:"showDateTime"`
    ShowPrice     float64           `json:"showPrice" bson:"showPrice"`
    OccupiedSeats map[string]string `json:"occupiedSeats" bson:"occupiedSeats"`
}

var (
    // ErrShowMovieRequired is returned by Validate when Movie is empty.
    ErrShowMovieRequired = errors.New("show: movie is required")
    // ErrShowDateTimeRequired is returned by Validate when ShowDateTime is zero.
    ErrShowDateTimeRequired = errors.New("show: showDateTime is required")
    // ErrShowSeatsNil is returned by Validate when OccupiedSeats is nil.
    ErrShowSeatsNil = errors.New("show: occupiedSeats must be an empty mapping, not null")
)

// NewShow builds a Show with an allocated, empty OccupiedSeats mapping.
func NewShow(movieID string, at time.Time, price float64) Show {
    return Show{
        Movie:         movieID,
        ShowDateTime:  at,
        ShowPrice:     price,
        OccupiedSeats: map[string]string{},
    }
}

// Validate reports whether the show can be persisted.
func (s Show) Validate() error {
    if s.Movie == "" {
        return ErrShowMovieRequired
    }
    if s.ShowDateTime.IsZero() {
        return ErrShowDateTimeRequired
    }
    if s.OccupiedSeats == nil {
        return ErrShowSeatsNil
    }
    return nil
}

// ShowInput is one date with the times of day to schedule on it, as
// submitted to the add-show endpoint.
type ShowInput struct {
    Date string   `json:"date"`
    Time []string `json:"time"`
}

// AddShowRequest is the add-show request body.  ShowsInput distinguishes an
// absent/null list (nil) from an explicit empty list; ShowPrice is a pointer
// so an absent price can be told apart from a submitted one.
type AddShowRequest struct {
    MovieID    string      `json:"movieId"`
    ShowsInput []ShowInput `json:"showsInput"`
    ShowPrice  *float64    `json:"showPrice"`
}
