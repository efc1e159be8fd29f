package posts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated = "post.created"
	EventUpdated = "post.updated"
	EventDeleted = "post.deleted"
)

// Event is the message published after every successful mutation.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Post Post      `json:"post"`
	At   time.Time `json:"at"`
}

func NewEvent(typ string, p Post) Event {
	return Event{ID: uuid.NewString(), Type: typ, Post: p, At: time.Now().UTC()}
}

// Publisher receives mutation events. Publishing is best effort: the
// service logs failures and never fails the request over them.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
