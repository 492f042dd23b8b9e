package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tankwatch/internal/fanout"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Server upgrades viewer connections and streams readings for one device.
// Viewers are read-only subscribers; there is no backlog, so clients re-fetch
// latest/history on reconnect.
type Server struct {
	bus      *fanout.Bus
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(bus *fanout.Bus, logger *zap.Logger) *Server {
	return &Server{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP handles GET /ws?device_id=...
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" {
		http.Error(w, "device_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := s.bus.Subscribe(deviceID)
	s.logger.Info("viewer connected",
		zap.String("device_id", deviceID),
		zap.String("subscription_id", sub.ID()),
	)

	closed := make(chan struct{})
	go s.readPump(conn, closed)
	go s.writePump(conn, sub, closed)
}

// readPump discards inbound frames and signals when the peer goes away.
func (s *Server) readPump(conn *websocket.Conn, closed chan struct{}) {
	defer close(closed)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, sub *fanout.Subscription, closed chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.bus.Unsubscribe(sub)
		_ = conn.Close()
		s.logger.Info("viewer disconnected",
			zap.String("device_id", sub.DeviceID()),
			zap.String("subscription_id", sub.ID()),
		)
	}()

	for {
		select {
		case <-closed:
			return
		case reading, ok := <-sub.Readings():
			if !ok {
				_ = s.write(conn, websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(reading); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(conn, websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, messageType int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(messageType, data)
}
