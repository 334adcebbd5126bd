package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:3500"`
	Name          string `env:"CHAT_NAME"`
	Room          string `env:"CHAT_ROOM"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
	Colours       bool   `env:"CHAT_COLOURS,default=true"`
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type message struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the relay, prints what it receives and sends what is typed.
//
//	/join <room>  enter a room with CHAT_NAME
//	/name <name>  change the name used by the next /join and messages
//	/leave        leave the current room
//	/quit         close the connection
//
// Anything else is posted as a chat message.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	color.Enable = config.Colours

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := url.URL{Scheme: "ws", Host: config.ServerAddress, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", u.String(), err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	session := &chatSession{conn: conn, name: config.Name, out: os.Stdout}
	if config.Name != "" && config.Room != "" {
		if err := session.send("enterRoom", map[string]string{"name": config.Name, "room": config.Room}); err != nil {
			return exitRuntime, err
		}
	}

	received := make(chan error, 1)
	go func() { received <- session.receive() }()

	typed := make(chan error, 1)
	go func() { typed <- session.readInput(os.Stdin) }()

	select {
	case <-ctx.Done():
		log.Info("Stopping client...")
	case err := <-received:
		if err != nil {
			return exitRuntime, err
		}
	case err := <-typed:
		if err != nil {
			return exitRuntime, err
		}
	}
	_ = session.write(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return exitOK, nil
}

type chatSession struct {
	mu   sync.Mutex // guards conn writes, made by the input loop and run
	conn *websocket.Conn
	name string
	out  io.Writer
}

func (s *chatSession) send(event string, data any) error {
	f := frame{Event: event}
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		f.Data = payload
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.write(websocket.TextMessage, raw)
}

func (s *chatSession) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

func (s *chatSession) readInput(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		command, arg, _ := strings.Cut(line, " ")
		var err error
		switch command {
		case "/quit":
			return nil
		case "/name":
			s.name = strings.TrimSpace(arg)
		case "/join":
			err = s.send("enterRoom", map[string]string{"name": s.name, "room": strings.TrimSpace(arg)})
		case "/leave":
			err = s.send("leaveRoom", nil)
		default:
			if err = s.send("activity", s.name); err == nil {
				err = s.send("message", map[string]string{"name": s.name, "text": line})
			}
		}
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
	}
	return scanner.Err()
}

func (s *chatSession) receive() error {
	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("connection lost: %w", err)
		}
		s.render(f)
	}
}

func (s *chatSession) render(f frame) {
	switch f.Event {
	case "message":
		var m message
		if json.Unmarshal(f.Data, &m) != nil {
			return
		}
		style := color.New(color.FgGreen)
		switch m.Name {
		case "admin":
			style = color.New(color.FgYellow)
		case s.name:
			style = color.New(color.FgCyan)
		}
		fmt.Fprintf(s.out, "[%s] %s: %s\n", color.Gray.Render(m.Time), style.Render(m.Name), m.Text)
	case "activity":
		var name string
		if json.Unmarshal(f.Data, &name) == nil {
			fmt.Fprintln(s.out, color.Gray.Render(name+" is typing..."))
		}
	case "userList":
		var data struct {
			Users []identity `json:"users"`
		}
		if json.Unmarshal(f.Data, &data) == nil {
			renderUsers(s.out, data.Users)
		}
	case "roomList":
		var data struct {
			Rooms []string `json:"rooms"`
		}
		if json.Unmarshal(f.Data, &data) == nil {
			fmt.Fprintln(s.out, color.Magenta.Render("Active rooms: "+strings.Join(data.Rooms, ", ")))
		}
	default:
		slog.Debug("Unknown frame", "event", f.Event)
	}
}

func renderUsers(w io.Writer, users []identity) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Room"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range users {
		table.Append([]string{u.Name, u.Room})
	}
	table.Render()
}
