package service

import (
	"errors"
	"time"

	"github.com/iliyamo/quickshow/internal/model"
)

// showTimeLayouts are tried in order against "<date>T<time>".
var showTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

var (
	errUnparseable  = errors.New("expected YYYY-MM-DD and HH:MM[:SS]")
	errMissingTimes = errors.New("time list is required")
)

// ExpandShows turns nested date/time input into one show per (date, time)
// pair, keeping input order: times within a date, dates as submitted.  Times
// are interpreted in loc.  An entry without a time list is rejected; an
// explicit empty list contributes nothing.  An empty input yields an empty,
// non-nil slice.
func ExpandShows(movieID string, inputs []model.ShowInput, price float64, loc *time.Location) ([]model.Show, error) {
	if loc == nil {
		loc = time.UTC
	}
	n := 0
	for _, in := range inputs {
		if in.Time == nil {
			return nil, &InputError{Date: in.Date, Err: errMissingTimes}
		}
		n += len(in.Time)
	}
	shows := make([]model.Show, 0, n)
	for _, in := range inputs {
		for _, tod := range in.Time {
			at, err := parseShowTime(in.Date, tod, loc)
			if err != nil {
				return nil, &InputError{Date: in.Date, Time: tod, Err: err}
			}
			shows = append(shows, model.NewShow(movieID, at, price))
		}
	}
	return shows, nil
}

func parseShowTime(date, tod string, loc *time.Location) (time.Time, error) {
	s := date + "T" + tod
	for _, layout := range showTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnparseable
}
