package main

import (
	"bytes"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func TestChatSession_Render(t *testing.T) {
	req := require.New(t)
	color.Disable()
	t.Cleanup(func() { color.Enable = true })

	var out bytes.Buffer
	session := &chatSession{name: "Alice", out: &out}

	session.render(frame{Event: "message", Data: []byte(`{"name":"admin","text":"Welcome to chat app","time":"3:04:05 PM"}`)})
	session.render(frame{Event: "activity", Data: []byte(`"Bob"`)})
	session.render(frame{Event: "roomList", Data: []byte(`{"rooms":["general","random"]}`)})
	session.render(frame{Event: "userList", Data: []byte(`{"users":[{"id":"a","name":"Alice","room":"general"}]}`)})

	rendered := out.String()
	req.Contains(rendered, "[3:04:05 PM] admin: Welcome to chat app")
	req.Contains(rendered, "Bob is typing...")
	req.Contains(rendered, "Active rooms: general, random")
	req.Contains(rendered, "Alice")
	req.Contains(rendered, "general")
}

func TestChatSession_Render_Ignores_Bad_Payloads(t *testing.T) {
	var out bytes.Buffer
	session := &chatSession{name: "Alice", out: &out}

	session.render(frame{Event: "message", Data: []byte(`"not an object"`)})
	session.render(frame{Event: "unknown"})

	require.Empty(t, out.String())
}
