package websocket

import (
	"chat-relay/domain"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	"log/slog"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
)

// connection pumps frames between one websocket and the relay.
// The reader runs on the HTTP handler goroutine, the writer on its own.
type connection struct {
	log     *slog.Logger
	conn    *gorilla.Conn
	service services.IChatService
	sink    *sink.ConnectionSink
	cfg     Config
	id      domain.ConnectionID
}

func newConnection(log *slog.Logger, conn *gorilla.Conn, service services.IChatService, cfg Config) *connection {
	return &connection{
		log:     log,
		conn:    conn,
		service: service,
		sink:    sink.NewConnectionSink(cfg.ConnectionBufferSize),
		cfg:     cfg,
	}
}

func (c *connection) serve(ctx context.Context) {
	defer c.conn.Close()

	id, err := c.service.Connect(ctx, c.sink)
	c.id = id
	c.log = c.log.With("connection_id", id)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump(ctx)
	}()

	if err == nil {
		c.readPump(ctx)
	} else {
		c.log.Warn("Connection not accepted", "error", err)
	}

	// The disconnect must reach the relay even though ctx ends with the
	// request. It waits for room in the queue until the relay stops.
	if err := c.service.Disconnect(context.WithoutCancel(ctx), c.id); err != nil {
		c.log.Error("Disconnect not dispatched", "error", err)
	}

	c.sink.Close()
	wg.Wait()
}

func (c *connection) readPump(ctx context.Context) {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure, gorilla.CloseNoStatusReceived) {
				c.log.Warn("WebSocket error", "error", err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))

		in, err := DecodeInbound(raw)
		if err != nil {
			c.log.Debug("Frame ignored", "error", err)
			continue
		}
		if err := c.dispatch(ctx, in); err != nil {
			c.log.Warn("Frame not dispatched", "event", in.Event, "error", err)
			return
		}
	}
}

func (c *connection) dispatch(ctx context.Context, in Inbound) error {
	switch in.Event {
	case EnterRoomName:
		return c.service.EnterRoom(ctx, c.id, in.Name, in.Room)
	case MessageName:
		return c.service.PostMessage(ctx, c.id, in.Name, in.Text)
	case ActivityName:
		return c.service.Activity(ctx, c.id, in.Name)
	case LeaveRoomName:
		return c.service.LeaveRoom(ctx, c.id)
	default:
		return nil
	}
}

// writePump is the only writer of the websocket. It stops once the sink is
// closed or a write fails; in the latter case the socket is closed so the
// reader stops too.
func (c *connection) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case evt := <-c.sink.Events():
			frame, err := EncodeEvent(evt)
			if err != nil {
				c.log.Error("Event not encoded", "event", evt.Name(), "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorilla.TextMessage, frame); err != nil {
				c.log.Debug("Write failed, closing connection", "error", err)
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.conn.WriteMessage(gorilla.PingMessage, nil); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-c.sink.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.WriteMessage(gorilla.CloseMessage,
				gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
			return
		case <-ctx.Done():
			_ = c.conn.WriteControl(gorilla.CloseMessage,
				gorilla.FormatCloseMessage(gorilla.CloseGoingAway, "server shutting down"),
				time.Now().Add(c.cfg.WriteWait))
			_ = c.conn.Close()
			return
		}
	}
}
