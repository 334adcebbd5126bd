// Package domain contains core concepts of the chat relay.
// This file defines Message records and the formatter stamping them.
// Messages are ephemeral: built per event, consumed once by a broadcast.
package domain

import (
	"fmt"
	"time"
)

const (
	// AdminLabel is the sender of every system generated message.
	AdminLabel = "admin"
	// WelcomeText greets a connection before it joins any room.
	WelcomeText = "Welcome to chat app"
	// DefaultTimeLayout renders hour, minute and second without a date.
	DefaultTimeLayout = "3:04:05 PM"
)

// Message is a displayable chat line.
type Message struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Time string `json:"time"`
}

// Clock returns the current time.
type Clock func() time.Time

// Formatter builds messages stamped with a human-readable time.
type Formatter struct {
	clock  Clock
	layout string
}

func NewFormatter(clock Clock, layout string) Formatter {
	return Formatter{clock: clock, layout: layout}
}

// Build never fails: text is passed through untouched. A nil clock falls
// back to time.Now and an empty layout to DefaultTimeLayout, so the zero
// Formatter is usable.
func (f Formatter) Build(sender, text string) Message {
	clock, layout := f.clock, f.layout
	if clock == nil {
		clock = time.Now
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return Message{
		Name: sender,
		Text: text,
		Time: clock().Format(layout),
	}
}

// BuildMessage stamps a message with the local wall clock.
func BuildMessage(sender, text string) Message {
	return NewFormatter(time.Now, DefaultTimeLayout).Build(sender, text)
}

func JoinedText(room string) string {
	return fmt.Sprintf("You have joined the %s chat room", room)
}

func HasJoinedText(name string) string {
	return fmt.Sprintf("%s has joined the room", name)
}

func HasLeftText(name string) string {
	return fmt.Sprintf("%s has left the room", name)
}
