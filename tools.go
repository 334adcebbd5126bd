//go:build tools
// +build tools

// Package chat_relay pins the code generators used by `go generate`
// (mockgen for the mocks package) so go.mod tracks them.
package chat_relay

import (
	_ "go.uber.org/mock/mockgen"
)
