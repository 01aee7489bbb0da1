package evaluator

import (
	"github.com/rs/zerolog"
)

type EventKind string

const (
	EventAlloc         EventKind = "alloc"
	EventRelease       EventKind = "release"
	EventDoubleRelease EventKind = "double_release"
	EventFork          EventKind = "fork"
	EventBind          EventKind = "bind"
	EventLeave         EventKind = "leave"
)

// Event describes one step of the ownership discipline. Zero fields are
// not applicable to the kind.
type Event struct {
	Seq      uint64
	Kind     EventKind
	Scope    uint64
	Parent   uint64
	Block    uint64
	Name     string
	Type     ValueType
	Mode     string
	Released int
}

// Observer receives heap and scope events in emission order.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }

// LogObserver writes every event as a debug record.
type LogObserver struct {
	Logger zerolog.Logger
}

func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{Logger: logger}
}

func (o *LogObserver) Observe(ev Event) {
	rec := o.Logger.Debug().
		Uint64("seq", ev.Seq).
		Str("event", string(ev.Kind))

	switch ev.Kind {
	case EventAlloc, EventRelease, EventDoubleRelease:
		rec = rec.Uint64("block", ev.Block).Str("type", string(ev.Type))
	case EventFork:
		rec = rec.Uint64("scope", ev.Scope).Uint64("parent", ev.Parent)
	case EventBind:
		rec = rec.Uint64("scope", ev.Scope).
			Str("name", ev.Name).
			Str("type", string(ev.Type)).
			Str("mode", ev.Mode)
		if ev.Block != 0 {
			rec = rec.Uint64("block", ev.Block)
		}
	case EventLeave:
		rec = rec.Uint64("scope", ev.Scope).Int("released", ev.Released)
	}
	rec.Send()
}
