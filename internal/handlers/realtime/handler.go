package realtime

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"seva/infras/otel"
	"seva/internal/realtime"
	"seva/shared/constant"
	"seva/shared/failure"
	"seva/transport/http/middleware"
	"seva/transport/http/response"
)

// envelope is the wire frame for every routed event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// wsConn adapts a websocket to the registry's connection handle.
// Writes are serialized; gorilla permits one concurrent writer only.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteJSON(envelope{Event: event, Data: payload}) //nolint:wrapcheck
}

func (c *wsConn) Close() error {
	return c.conn.Close() //nolint:wrapcheck
}

type Handler struct {
	registry   realtime.Registry
	middleware middleware.Auth
	otel       otel.Otel
	upgrader   websocket.Upgrader
}

func New(registry realtime.Registry, middleware middleware.Auth, otel otel.Otel) Handler {
	return Handler{
		registry:   registry,
		middleware: middleware,
		otel:       otel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/ws", func(routerGroup chi.Router) {
		routerGroup.Use(handler.middleware.Auth)
		routerGroup.Get("/", handler.Connect)
	})
}

// Connect upgrades the request to a websocket and registers the
// caller's presence for the lifetime of the connection. Presence is
// last-write-wins: a reconnect replaces the previous handle.
// @Summary Open a realtime event connection
// @Description Upgrade to a websocket and register the caller as present for event routing.
// @Tags Realtime
// @Success 101 "Switching Protocols"
// @Failure 401 {object} response.Error
// @Router /v1/ws [get]
// @Security BearerAuth
func (handler *Handler) Connect(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelRealtimeScopeName, constant.OtelRealtimeScopeName+".Connect")
	defer scope.End()

	username, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if username == constant.Empty {
		err := failure.Unauthorized("unauthorized")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	socket, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the handshake failure.
		scope.TraceError(err)
		log.Error().Err(err).Str("username", username).Msg("failed to upgrade websocket")

		return
	}

	conn := &wsConn{conn: socket}
	handler.registry.Connect(username, conn)

	log.Info().Str("username", username).Msg("realtime connection opened")
	scope.AddEvent("presence registered for " + username)

	defer func() {
		handler.registry.Disconnect(username, conn)
		_ = conn.Close()

		log.Info().Str("username", username).Msg("realtime connection closed")
	}()

	// Inbound frames carry nothing; the read loop only detects the
	// peer going away.
	for {
		if _, _, err := socket.ReadMessage(); err != nil {
			return
		}
	}
}
