// Package live pushes notification events to connected consoles over websockets.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Authenticator resolves a bearer token to a caller.
type Authenticator interface {
	Authenticate(token string) (*auth.Principal, error)
}

// Server upgrades /live requests and relays hub events for one role.
type Server struct {
	hub        events.Hub
	authn      Authenticator
	logger     *zap.Logger
	bufferSize int
	upgrader   websocket.Upgrader
	clients    atomic.Int64
}

// NewServer builds a live server. bufferSize bounds the per-client queue.
func NewServer(hub events.Hub, authn Authenticator, logger *zap.Logger, bufferSize int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = 32
	}
	return &Server{
		hub:        hub,
		authn:      authn,
		logger:     logger,
		bufferSize: bufferSize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the mux serving GET /live.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", s.handleLive)
	return mux
}

// Clients reports the number of connected consoles.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, apperrors.NewDomainError(apperrors.CodeValidation, "method not allowed", http.StatusMethodNotAllowed, nil))
		return
	}
	role := domain.StaffRole(strings.ToUpper(r.URL.Query().Get("role")))
	if !role.Valid() {
		writeError(w, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)}))
		return
	}
	principal, err := s.authn.Authenticate(bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if !auth.CanListen(principal, role) {
		writeError(w, apperrors.NewForbidden("role not permitted on this channel"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, s.bufferSize),
		done: make(chan struct{}),
	}
	s.clients.Add(1)
	unsubscribe := s.hub.Subscribe(role, func(_ context.Context, event events.LiveEvent) error {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		select {
		case c.send <- payload:
			return nil
		case <-c.done:
			return nil
		default:
			return errors.New("live client queue full")
		}
	})
	s.logger.Info("live client connected",
		zap.String("role", string(role)),
		zap.String("name", principal.Name),
	)

	go s.writePump(c)
	s.readPump(c)

	unsubscribe()
	s.clients.Add(-1)
	s.logger.Info("live client disconnected", zap.String("role", string(role)), zap.String("name", principal.Name))
}

// readPump drains control frames until the peer goes away.
func (s *Server) readPump(c *client) {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func writeError(w http.ResponseWriter, err error) {
	domainErr := apperrors.ToDomainError(err)
	body := map[string]any{"error": map[string]any{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(domainErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(body)
}
