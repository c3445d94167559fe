package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"seva/config"
	"seva/infras/kafka"
	"seva/shared/timezone"
)

const (
	TypeBookingCreated    = "booking.created"
	TypeApplicationFiled  = "application.filed"
	TypeApplicationStatus = "application.status"
)

// Envelope is the analytics record shipped to the event stream.
type Envelope struct {
	Type       string `json:"type"`
	Actor      string `json:"actor"`
	Subject    string `json:"subject"`
	OccurredAt string `json:"occurred_at"`
	Detail     any    `json:"detail,omitempty"`
}

// Publisher ships analytics events to the platform's stream.
// Fire-and-forget: a broker outage never fails a request.
type Publisher interface {
	Publish(ctx context.Context, eventType, actor, subject string, detail any)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func NewPublisher(client kafka.Client, cfg *config.Config) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, eventType, actor, subject string, detail any) {
	if !p.cfg.Kafka.Enable {
		return
	}

	envelope := Envelope{
		Type:       eventType,
		Actor:      actor,
		Subject:    subject,
		OccurredAt: timezone.Now().Format("2006-01-02T15:04:05Z07:00"),
		Detail:     detail,
	}

	err := p.client.SendMessages(ctx, p.cfg.Kafka.TopicEvents, kafka.Message{
		Key:   subject,
		Value: envelope,
	})
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("failed to publish analytics event")
	}
}
