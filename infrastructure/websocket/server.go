// Package websocket exposes the relay over websocket connections.
package websocket

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"chat-relay/errors"
	"chat-relay/services"

	gorilla "github.com/gorilla/websocket"
	"github.com/samber/lo"
)

type Config struct {
	PingInterval         time.Duration
	PongWait             time.Duration
	WriteWait            time.Duration
	MaxMessageSize       int64
	ConnectionBufferSize int
	AllowedOrigins       []string
}

// Server upgrades HTTP requests on /ws and serves one relay connection per
// websocket.
type Server struct {
	log      *slog.Logger
	service  services.IChatService
	cfg      Config
	upgrader gorilla.Upgrader
}

func NewServer(log *slog.Logger, service services.IChatService, cfg Config) *Server {
	s := &Server{log: log, service: service, cfg: cfg}
	s.upgrader = gorilla.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.HandleWebSocket)
}

// HandleWebSocket blocks for the lifetime of the connection.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already answered the client.
		s.log.Warn("WebSocket upgrade failed", "origin", r.Header.Get("Origin"), "error", err)
		return
	}
	newConnection(s.log, conn, s.service, s.cfg).serve(r.Context())
}

// checkOrigin accepts requests without an Origin header, the ones coming
// from non-browser clients. Otherwise the origin must be listed, either in
// full ("http://localhost:5500") or by host ("127.0.0.1:5500").
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	allowed := OriginAllowed(s.cfg.AllowedOrigins, origin)
	if !allowed {
		s.log.Warn("Upgrade refused", "origin", origin, "error", errors.ErrOriginNotAllowed)
	}
	return allowed
}

func OriginAllowed(allowList []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	return lo.ContainsBy(allowList, func(entry string) bool {
		return entry == origin || entry == host
	})
}
