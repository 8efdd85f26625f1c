package interact

import (
	"io"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// EventType is the transition a listener is told about.
type EventType string

const (
	EventEnter    EventType = "enter"
	EventLeave    EventType = "leave"
	EventSelect   EventType = "select"
	EventDeselect EventType = "deselect"
)

// NodeEvent is a transition on a whole node.
type NodeEvent struct {
	Type EventType
	ID   string
}

// RowEvent is a transition on one property row.
type RowEvent struct {
	Type   EventType
	NodeID string
	Index  int
}

// EdgeEvent is a transition on an edge.
type EdgeEvent struct {
	Type EventType
	ID   string
}

// Handle identifies a subscription for later removal.
type Handle int

// Bus is a typed listener registry. Emit calls every listener in
// subscription order; a listener that panics is recovered and logged, and
// the remaining listeners still run.
type Bus[T any] struct {
	mu   sync.Mutex
	seq  Handle
	subs map[Handle]func(T)
	log  *log.Logger
}

// NewBus returns a bus logging listener panics to the given logger. A nil
// logger silences them.
func NewBus[T any](logger *log.Logger) *Bus[T] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus[T]{subs: make(map[Handle]func(T)), log: logger}
}

// Subscribe registers a listener and returns its handle.
func (b *Bus[T]) Subscribe(fn func(T)) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.subs[b.seq] = fn
	return b.seq
}

// Unsubscribe removes a listener. Unknown handles are ignored.
func (b *Bus[T]) Unsubscribe(h Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, h)
}

// Emit delivers the event to every listener in subscription order.
func (b *Bus[T]) Emit(ev T) {
	b.mu.Lock()
	handles := make([]Handle, 0, len(b.subs))
	for h := range b.subs {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	fns := make([]func(T), len(handles))
	for i, h := range handles {
		fns[i] = b.subs[h]
	}
	b.mu.Unlock()

	for i, fn := range fns {
		b.safeCall(fn, ev, handles[i])
	}
}

func (b *Bus[T]) safeCall(fn func(T), ev T, h Handle) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked", "handle", int(h), "panic", r)
		}
	}()
	fn(ev)
}

// Events groups the per-category buses and routes state changes onto them.
type Events struct {
	Node *Bus[NodeEvent]
	Row  *Bus[RowEvent]
	Edge *Bus[EdgeEvent]
}

// NewEvents returns connected buses sharing one logger.
func NewEvents(logger *log.Logger) *Events {
	return &Events{
		Node: NewBus[NodeEvent](logger),
		Row:  NewBus[RowEvent](logger),
		Edge: NewBus[EdgeEvent](logger),
	}
}

// Dispatch fans a state change out as typed events: hover transitions as
// enter/leave, selection transitions as select/deselect.
func (e *Events) Dispatch(c Change) {
	if !c.Left.IsNone() {
		e.emit(EventLeave, c.Left)
	}
	if !c.Entered.IsNone() {
		e.emit(EventEnter, c.Entered)
	}
	for _, t := range c.Deselected {
		e.emit(EventDeselect, t)
	}
	for _, t := range c.Selected {
		e.emit(EventSelect, t)
	}
}

func (e *Events) emit(typ EventType, t Target) {
	switch t.Kind {
	case TargetNode:
		e.Node.Emit(NodeEvent{Type: typ, ID: t.ID})
	case TargetRow:
		e.Row.Emit(RowEvent{Type: typ, NodeID: t.ID, Index: t.Row})
	case TargetEdge:
		e.Edge.Emit(EdgeEvent{Type: typ, ID: t.ID})
	}
}
