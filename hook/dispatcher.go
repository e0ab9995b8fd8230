package hook

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/anchore/poetenv/internal/log"
)

// EventName identifies a point in the command lifecycle that listeners can subscribe to.
type EventName string

const (
	// CommandEvent is dispatched right before a command runs.
	CommandEvent EventName = "console.command"
	// TerminateEvent is dispatched after a command has run.
	TerminateEvent EventName = "console.terminate"
)

// Event is the payload handed to listeners.
type Event interface {
	IsPropagationStopped() bool
}

// Listener reacts to a dispatched event. Returning an error aborts the dispatch and the command.
type Listener func(ctx context.Context, e Event, name EventName, d *Dispatcher) error

type registration struct {
	listener Listener
	priority int
	order    int
}

// Dispatcher calls registered listeners for an event, highest priority first. Listeners with the same priority are
// called in the order they were added.
type Dispatcher struct {
	lock      *sync.RWMutex
	listeners map[EventName][]registration
	added     int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		lock:      &sync.RWMutex{},
		listeners: make(map[EventName][]registration),
	}
}

func (d *Dispatcher) AddListener(name EventName, listener Listener, priority int) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.added++
	regs := append(d.listeners[name], registration{
		listener: listener,
		priority: priority,
		order:    d.added,
	})
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].priority > regs[j].priority
	})
	d.listeners[name] = regs
}

// HasListeners reports whether anything is subscribed to the event.
func (d *Dispatcher) HasListeners(name EventName) bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.listeners[name]) > 0
}

// Dispatch calls each listener of the event in turn until one fails or stops propagation.
func (d *Dispatcher) Dispatch(ctx context.Context, name EventName, e Event) (Event, error) {
	d.lock.RLock()
	regs := append([]registration(nil), d.listeners[name]...)
	d.lock.RUnlock()

	for _, reg := range regs {
		if e.IsPropagationStopped() {
			log.WithFields("event", name).Trace("event propagation stopped")
			break
		}
		if err := ctx.Err(); err != nil {
			return e, err
		}
		if err := reg.listener(ctx, e, name, d); err != nil {
			return e, fmt.Errorf("listener for %q failed: %w", name, err)
		}
	}
	return e, nil
}
