package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	kgo "github.com/segmentio/kafka-go"

	"blog-service/internal/posts"
)

// Producer publishes post mutation events as JSON. It implements
// posts.Publisher.
type Producer struct {
	w *kgo.Writer
}

func NewProducer(bootstrapServers, topic string) *Producer {
	addrs := strings.Split(strings.TrimSpace(bootstrapServers), ",")
	w := &kgo.Writer{
		Addr:         kgo.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Producer{w: w}
}

func (p *Producer) Publish(ctx context.Context, ev posts.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kgo.Message{
		Key:   []byte(ev.Type),
		Value: b,
		Time:  ev.At,
	})
}

func (p *Producer) Close() error { return p.w.Close() }
