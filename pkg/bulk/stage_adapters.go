package bulk

import (
	"errors"
	"fmt"
	"sync"
)

// ErrChannelStageClosed is returned when a channel stage receives a command
// after being closed.
var ErrChannelStageClosed = errors.New("bulk: channel stage closed")

// CommandFunc handles one command delivered to a callback stage.
type CommandFunc func(Command) error

// NewCallbackStage adapts a CommandFunc into a full Stage so callers can plug
// arbitrary functions at the chain tail without defining structs.
func NewCallbackStage(name string, fn CommandFunc) Stage {
	if name == "" {
		name = "callback"
	}
	return &callbackStage{name: name, fn: fn}
}

// NewChannelStage exposes forwarded commands via a channel; it returns the
// stage, the read-only channel, and a close function that the caller should
// invoke during shutdown.
func NewChannelStage(name string, buffer int) (Stage, <-chan Command, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Command, buffer)
	s := &channelStage{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackStage struct {
	name string
	fn   CommandFunc
}

func (s *callbackStage) Accept(cmd Command) error {
	if s.fn == nil {
		return fmt.Errorf("callback stage %q: nil handler", s.name)
	}
	return s.fn(cmd)
}

func (s *callbackStage) StartBlock() error  { return nil }
func (s *callbackStage) FinishBlock() error { return nil }

type channelStage struct {
	name   string
	ch     chan Command
	closed chan struct{}
	once   sync.Once
}

func (s *channelStage) Accept(cmd Command) error {
	select {
	case <-s.closed:
		return ErrChannelStageClosed
	default:
	}

	select {
	case <-s.closed:
		return ErrChannelStageClosed
	case s.ch <- cmd:
		return nil
	}
}

func (s *channelStage) StartBlock() error  { return nil }
func (s *channelStage) FinishBlock() error { return nil }

func (s *channelStage) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
