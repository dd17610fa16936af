package tui

import (
	"github.com/san-kum/ljsim/internal/dynamo"
)

// Feed is a dynamo.Observer that forwards events to a channel. Production
// progress events are dropped when the channel is full; stage changes are
// always delivered.
type Feed struct {
	ch   chan dynamo.Event
	last dynamo.Stage
	err  error
}

func NewFeed(buffer int) *Feed {
	return &Feed{ch: make(chan dynamo.Event, buffer)}
}

func (f *Feed) OnEvent(e dynamo.Event) {
	if e.Stage == f.last && e.Stage == dynamo.StageProduce {
		select {
		case f.ch <- e:
		default:
		}
		return
	}
	f.last = e.Stage
	f.ch <- e
}

// Close ends the feed. err is reported to the consumer once the channel
// drains.
func (f *Feed) Close(err error) {
	f.err = err
	close(f.ch)
}

func (f *Feed) Events() <-chan dynamo.Event { return f.ch }

// Err is valid after Events has been closed.
func (f *Feed) Err() error { return f.err }
