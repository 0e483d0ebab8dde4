package toast

import "time"

// DefaultDuration is the auto-dismiss delay used when none is configured.
const DefaultDuration = 4000 * time.Millisecond

// Option configures a single toast.
type Option func(*options)

type options struct {
	typ         Type
	duration    time.Duration
	hasDuration bool
	position    Position
	title       string
}

// WithType sets the toast type.
func WithType(t Type) Option {
	return func(o *options) {
		o.typ = t
	}
}

// WithDuration sets the auto-dismiss delay. Zero or negative keeps the toast
// until it is removed explicitly.
func WithDuration(d time.Duration) Option {
	return func(o *options) {
		o.duration = d
		o.hasDuration = true
	}
}

// Persistent disables auto-dismiss.
func Persistent() Option {
	return WithDuration(0)
}

// WithPosition sets the container position.
func WithPosition(p Position) Option {
	return func(o *options) {
		o.position = p
	}
}

// WithTitle overrides the default title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// Settings are the manager-wide defaults applied to new toasts.
type Settings struct {
	Duration       time.Duration
	Position       Position
	Titles         Titles
	PauseOnHover   bool
	MaxPerPosition int // 0 = unlimited
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Duration:     DefaultDuration,
		Position:     DefaultPosition,
		Titles:       TitlesFor(DefaultLocale),
		PauseOnHover: true,
	}
}

// resolved is a toast request with every default applied.
type resolved struct {
	typ      Type
	title    string
	message  string
	duration time.Duration
	position Position
}

func (s Settings) resolve(message string, opts []Option) resolved {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	r := resolved{
		typ:      o.typ,
		message:  message,
		duration: s.Duration,
		position: o.position,
		title:    o.title,
	}
	if r.typ == "" {
		r.typ = TypeInfo
	}
	if o.hasDuration {
		r.duration = o.duration
	}
	if r.position == "" {
		r.position = s.Position
	}
	r.position = ParsePosition(string(r.position))
	if r.title == "" {
		r.title = s.Titles.Title(r.typ)
	}
	return r
}
