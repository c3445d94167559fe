package realtime

import (
	"context"

	"github.com/rs/zerolog/log"

	"seva/infras/otel"
	"seva/shared/constant"
)

type routerImpl struct {
	registry Registry
	otel     otel.Otel
}

func NewRouter(registry Registry, ot otel.Otel) Router {
	return &routerImpl{
		registry: registry,
		otel:     ot,
	}
}

// Route performs a single best-effort send. At-most-once: if the
// recipient is absent or the write fails, the event is gone.
func (r *routerImpl) Route(ctx context.Context, username, event string, payload any) {
	_, scope := r.otel.NewScope(ctx, constant.OtelRealtimeScopeName, constant.OtelRealtimeScopeName+".Route")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"realtime.event":     event,
		"realtime.recipient": username,
	})

	conn, ok := r.registry.Get(username)
	if !ok {
		log.Debug().Str("username", username).Str("event", event).Msg("recipient not present, event dropped")

		return
	}

	if err := conn.Send(event, payload); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("username", username).Str("event", event).Msg("failed to deliver event")
	}
}
