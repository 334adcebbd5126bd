package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrBlankField       = fmt.Errorf("name and room must not be blank")
	ErrReservedName     = fmt.Errorf("name is reserved")
	ErrUnknownEvent     = fmt.Errorf("unknown event")
	ErrSinkClosed       = fmt.Errorf("sink is closed")
	ErrSinkFull         = fmt.Errorf("sink buffer is full")
	ErrRelayStopped     = fmt.Errorf("relay is stopped")
	ErrOriginNotAllowed = fmt.Errorf("origin not allowed")
	ErrEmptyWords       = fmt.Errorf("no words have been found")
)
