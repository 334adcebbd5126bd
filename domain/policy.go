package domain

import (
	"chat-relay/errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})
	return v
}

// JoinPolicy hardens room entry. The zero value accepts every join.
type JoinPolicy struct {
	// Strict rejects empty or whitespace-only names and rooms.
	Strict bool
	// ReserveAdmin forbids clients from using AdminLabel as their name.
	ReserveAdmin bool
}

// CheckJoin returns nil when the command may proceed.
func (p JoinPolicy) CheckJoin(cmd EnterRoomCommand) error {
	if p.Strict {
		if err := validate.Struct(cmd); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrBlankField, err)
		}
	}
	if p.ReserveAdmin && IsAdminName(cmd.Name) {
		return fmt.Errorf("%w: %q", errors.ErrReservedName, cmd.Name)
	}
	return nil
}

// AllowsSender reports whether a chat message may carry the given name.
func (p JoinPolicy) AllowsSender(name string) bool {
	return !p.ReserveAdmin || !IsAdminName(name)
}

func IsAdminName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), AdminLabel)
}
