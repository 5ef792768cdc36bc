// Package queue defines message payloads exchanged over the message broker.
package queue

// InvalidationQueueName is the durable queue carrying cache invalidation
// events between server instances.
const InvalidationQueueName = "potluck.invalidated"

// PotluckInvalidatedEvent is published after any successful mutation under
// a potluck (the potluck itself, a category, an item or a claim). It
// carries just enough for consumers to evict the potluck's cached public
// view without querying the primary database.
type PotluckInvalidatedEvent struct {
	URLSlug   string `json:"url_slug"`
	ChangedAt string `json:"changed_at"`
}
