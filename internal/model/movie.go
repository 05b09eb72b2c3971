package model

import "time"

// Movie represents a film cached from the catalog service.  It is keyed by
// the catalog's own identifier rather than a generated id, and it is created
// the first time a show references a movie the store has not seen.  This
// struct corresponds to a document in the `movies` collection (or a row in
// the `movies` table for the MySQL backend).
//
// Fields:
//  ID               – catalog movie id, used as the primary key.
//  Title            – display title.
//  Overview         – synopsis.
//  PosterPath       – catalog-relative poster image path.
//  BackdropPath     – catalog-relative backdrop image path.
//  ReleaseDate      – release date as reported by the catalog (YYYY-MM-DD).
//  OriginalLanguage – ISO 639-1 language code.
//  Tagline          – marketing tagline.
//  Genres           – genre list; never nil once built.
//  Casts            – cast list from the credits call; never nil once built.
//  VoteAverage      – average catalog vote.
//  Runtime          – runtime in minutes.
//  CreatedAt        – when the movie was cached.
//  UpdatedAt        – last write time.
type Movie struct {
    ID               string       `json:"_id" bson:"_id"`
    Title            string       `json:"title" bson:"title"`
    Overview         string       `json:"overview" bson:"overview"`
    PosterPath       string       `json:"poster_path" bson:"poster_path"`
    BackdropPath     string       `json:"backdrop_path" bson:"backdrop_path"`
    ReleaseDate      string       `json:"release_date" bson:"release_date"`
    OriginalLanguage string       `json:"original_language" bson:"original_language"`
    Tagline          string       `json:"tagline" bson:"tagline"`
    Genres           []Genre      `json:"genres" bson:"genres"`
    Casts            []CastMember `json:"casts" bson:"casts"`
    VoteAverage      float64      `json:"vote_average" bson:"vote_average"`
    Runtime          int          `json:"runtime" bson:"runtime"`
    CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
    UpdatedAt        time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Genre is a catalog genre entry.
type Genre struct {
    ID   int    `json:"id" bson:"id"`
    Name string `json:"name" bson:"name"`
}

// CastMember is one entry of the catalog's credits "cast" array.
type CastMember struct {
    ID                 int     `json:"id" bson:"id"`
    CastID             int     `json:"cast_id,omitempty" bson:"cast_id,omitempty"`
    CreditID           string  `json:"credit_id,omitempty" bson:"credit_id,omitempty"`
    Name               string  `json:"name" bson:"name"`
    OriginalName       string  `json:"original_name,omitempty" bson:"original_name,omitempty"`
    Character          string  `json:"character,omitempty" bson:"character,omitempty"`
    Gender             int     `json:"gender,omitempty" bson:"gender,omitempty"`
    Adult              bool    `json:"adult,omitempty" bson:"adult,omitempty"`
    KnownForDepartment string  `json:"known_for_department,omitempty" bson:"known_for_department,omitempty"`
    Popularity         float64 `json:"popularity,omitempty" bson:"popularity,omitempty"`
    ProfilePath        string  `json:"profile_path,omitempty" bson:"profile_path,omitempty"`
    Order              int     `json:"order" bson:"order"`
}
