package websocket

import (
	"chat-relay/domain/event"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
)

// Inbound event names.
const (
	EnterRoomName = "enterRoom"
	MessageName   = "message"
	ActivityName  = "activity"
	LeaveRoomName = "leaveRoom"
)

// Frame is the envelope of every websocket text message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type enterRoomData struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

type messageData struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Inbound is a decoded client frame. Only the fields of Event are set.
type Inbound struct {
	Event string
	Name  string
	Room  string
	Text  string
}

// DecodeInbound parses a client frame. Missing fields decode as empty
// strings; whether they are acceptable is decided by the relay.
func DecodeInbound(raw []byte) (Inbound, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Inbound{}, fmt.Errorf("invalid frame: %w", err)
	}

	in := Inbound{Event: frame.Event}
	switch frame.Event {
	case EnterRoomName:
		var data enterRoomData
		if err := decodeData(frame.Data, &data); err != nil {
			return Inbound{}, err
		}
		in.Name, in.Room = data.Name, data.Room
	case MessageName:
		var data messageData
		if err := decodeData(frame.Data, &data); err != nil {
			return Inbound{}, err
		}
		in.Name, in.Text = data.Name, data.Text
	case ActivityName:
		if err := decodeData(frame.Data, &in.Name); err != nil {
			return Inbound{}, err
		}
	case LeaveRoomName:
	default:
		return Inbound{}, fmt.Errorf("%w: %q", errors.ErrUnknownEvent, frame.Event)
	}
	return in, nil
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return nil
}

// EncodeEvent renders an outbound event as a frame.
func EncodeEvent(e event.Event) ([]byte, error) {
	return json.Marshal(outboundFrame{Event: e.Name(), Data: event.Payload(e)})
}
