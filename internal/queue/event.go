// Package queue defines message payloads exchanged over the message broker
// together with the publisher and consumer that move them.
package queue

// ShowsQueueName is the durable queue carrying ShowsAddedEvent messages.
const ShowsQueueName = "shows.added"

// ShowsAddedEvent is published after a batch of shows has been persisted.
// It carries enough for downstream consumers to log or notify without
// reading the primary store.
type ShowsAddedEvent struct {
    MovieID       string   `json:"movie_id"`
    MovieTitle    string   `json:"movie_title"`
    ShowIDs       []string `json:"show_ids"`
    ShowDateTimes []string `json:"show_date_times"`
    ShowPrice     float64  `json:"show_price"`
    AddedAt       string   `json:"added_at"`
}
