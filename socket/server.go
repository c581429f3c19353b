package socket

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/rs/zerolog/log"
)

// NewServer builds the Socket.IO server and wires its connection lifecycle
// into the registry. The registry, not socket.io rooms, decides who receives
// what: a "join" subscribes the connection to that user's personal channel
// and a later join from the same connection replaces the subscription.
func NewServer(registry *Registry) *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		log.Debug().Str("socket", s.ID()).Msg("socket connected")
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, data map[string]string) {
		userID := data["userId"]
		if userID == "" {
			log.Warn().Str("socket", s.ID()).Msg("join without userId ignored")
			return
		}
		s.SetContext(userID)
		registry.Subscribe(s.ID(), userID, func(event string, payload interface{}) {
			s.Emit(event, payload)
		})
		log.Debug().Str("socket", s.ID()).Str("user", userID).Msg("joined personal channel")
	})

	server.OnEvent("/", "leave", func(s socketio.Conn, data map[string]string) {
		registry.Unsubscribe(s.ID())
		s.SetContext("")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		registry.Unsubscribe(s.ID())
		log.Debug().Str("socket", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Err(e).Msg("socket error")
	})

	return server
}
