package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"news-pulse/internal/domain"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ScoredEvent is the payload written for every newly scored article.
type ScoredEvent struct {
	ArticleID   int64              `json:"article_id"`
	Source      string             `json:"source"`
	Headline    string             `json:"headline"`
	Link        string             `json:"link,omitempty"`
	PublishedAt time.Time          `json:"published_at"`
	Sentiment   int                `json:"sentiment"`
	Confidence  float64            `json:"confidence"`
	RawScore    float64            `json:"raw_score"`
	Components  map[string]float64 `json:"components,omitempty"`
	ScoredAt    time.Time          `json:"scored_at"`
}

// KafkaPublisher streams scored articles to a topic keyed by article ID.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Gzip,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
		BatchSize:              100,
		BatchTimeout:           time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: writer, topic: topic}, nil
}

// PublishScored writes one message per article and returns how many were
// accepted by the broker.
func (p *KafkaPublisher) PublishScored(ctx context.Context, scored []domain.ScoredArticle) (int, error) {
	if len(scored) == 0 {
		return 0, nil
	}
	msgs := make([]kafka.Message, 0, len(scored))
	for _, s := range scored {
		payload, err := json.Marshal(ScoredEvent{
			ArticleID:   s.ID,
			Source:      s.Source,
			Headline:    s.Headline,
			Link:        s.Link,
			PublishedAt: s.PublishedAt,
			Sentiment:   s.Sentiment,
			Confidence:  s.Confidence,
			RawScore:    s.RawScore,
			Components:  s.ComponentScores,
			ScoredAt:    s.ScoredAt,
		})
		if err != nil {
			return 0, fmt.Errorf("marshal scored event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Topic: p.topic,
			Key:   []byte(strconv.FormatInt(s.ID, 10)),
			Value: payload,
			Time:  s.ScoredAt,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write scored events: %w", err)
	}
	return len(msgs), nil
}

func (p *KafkaPublisher) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
