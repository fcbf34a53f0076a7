package viewer

import (
	"context"
	"sync"
)

// msgBuffer bounds how many messages may queue before Send blocks.
const msgBuffer = 64

// Program drives a Model: it feeds messages to Update one at a time, runs
// the returned commands on their own goroutines and feeds their results
// back in. Only the Run goroutine touches the Model.
type Program struct {
	model  *Model
	msgs   chan Msg
	done   chan struct{}
	render func(*Model)
}

// ProgramOption configures a Program.
type ProgramOption func(*Program)

// WithRender calls fn on the Run goroutine after every processed message.
func WithRender(fn func(*Model)) ProgramOption {
	return func(p *Program) {
		p.render = fn
	}
}

// NewProgram creates a Program for m.
func NewProgram(m *Model, opts ...ProgramOption) *Program {
	p := &Program{
		model: m,
		msgs:  make(chan Msg, msgBuffer),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send queues msg for the update loop. It blocks while the queue is full
// and drops msg once Run has returned.
func (p *Program) Send(msg Msg) {
	select {
	case p.msgs <- msg:
	case <-p.done:
	}
}

// Run processes messages until a Quit message arrives or ctx is done.
// In-flight commands are cancelled and waited for before Run returns.
// Run must be called at most once.
func (p *Program) Run(ctx context.Context) error {
	defer close(p.done)

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-p.msgs:
			if _, ok := msg.(Quit); ok {
				return nil
			}

			cmd := p.model.Update(msg)
			if p.render != nil {
				p.render(p.model)
			}
			if cmd == nil {
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				result := cmd(ctx)
				select {
				case p.msgs <- result:
				case <-ctx.Done():
				}
			}()
		}
	}
}
