package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

const readTimeout = 5 * time.Second

// Frame is the relay envelope as seen by a client.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Message struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set, skipping e2e scenarios")
	}
}

// Dial opens a websocket to the relay and closes it at the end of the test.
func (s *BaseWsSuite) Dial(name string) *Client {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	u := url.URL{Scheme: "ws", Host: s.Config.RelayAddr, Path: "/ws"}
	requestHeader := http.Header{}
	if s.Config.Origin != "" {
		requestHeader.Set("Origin", s.Config.Origin)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), requestHeader)
	s.Require().NoError(err, "Failed to connect to relay at "+u.String())
	s.T().Cleanup(func() { _ = conn.Close() })
	return &Client{suite: s, name: name, conn: conn}
}

// Client is one relay connection driven by a scenario.
type Client struct {
	suite *BaseWsSuite
	name  string
	conn  *websocket.Conn
}

func (c *Client) Send(event string, data any) {
	payload, err := json.Marshal(data)
	c.suite.Require().NoError(err)
	c.suite.Require().NoError(c.conn.WriteJSON(Frame{Event: event, Data: payload}))
}

func (c *Client) Read() Frame {
	c.suite.Require().NoError(c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	var f Frame
	c.suite.Require().NoError(c.conn.ReadJSON(&f), c.name+" did not receive a frame")
	if c.suite.Config.DebugJSON {
		c.suite.T().Logf("%s <- %s %s", c.name, f.Event, string(f.Data))
	}
	return f
}

// ReadUntil skips frames until one of event is received.
func (c *Client) ReadUntil(event string) Frame {
	for {
		if f := c.Read(); f.Event == event {
			return f
		}
	}
}

func (c *Client) ReadMessage() Message {
	f := c.ReadUntil("message")
	var m Message
	c.suite.Require().NoError(json.Unmarshal(f.Data, &m))
	return m
}

func (c *Client) Close() {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}
