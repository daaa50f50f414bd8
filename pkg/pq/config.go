package pq

import (
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap"
)

const (
	DefaultName             = "PQ"
	DefaultPriority         = 5
	DefaultQueueCapacity    = 32
	DefaultStackSize        = 8192
	DefaultIdleIntervalMs   = 1000
	DefaultSendTimeoutTicks = 10
	DefaultTick             = 10 * time.Millisecond
)

// Config is the static part of a Handle. It is consumed by Start and must not
// change afterwards.
type Config struct {
	Name          string        `default:"PQ" mapstructure:"name"`
	IdleInterval  Duration      `mapstructure:"idle-interval"`
	Priority      int           `default:"5" mapstructure:"priority"`
	StackSize     int           `mapstructure:"stack-size"`
	QueueCapacity int           `mapstructure:"capacity"`
	SendTimeout   Duration      `mapstructure:"send-timeout"`
	Tick          time.Duration `default:"10ms" mapstructure:"tick"`
}

// SetDefaults implements defaults.Setter.
func (c *Config) SetDefaults() {
	if c.IdleInterval.IsZero() {
		c.IdleInterval = Milliseconds(DefaultIdleIntervalMs)
	}
	if c.SendTimeout.IsZero() {
		c.SendTimeout = Ticks(DefaultSendTimeoutTicks)
	}
}

// resolve fills the values left for Start to decide.
func (c *Config) resolve() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.StackSize == 0 {
		c.StackSize = DefaultStackSize
	}
	if c.Tick <= 0 {
		c.Tick = DefaultTick
	}
	c.SetDefaults()
}

// SetDefaults resets h to its default configuration. Capacity and stack size
// are left at zero so Start picks the environment defaults. It must not be
// called on a started handle.
func SetDefaults(h *Handle) {
	if h == nil {
		return
	}
	*h = Handle{}
	defaults.MustSet(&h.Config)
}

type Option func(*Handle)

// NewHandle returns a handle with default configuration and opts applied.
func NewHandle(opts ...Option) *Handle {
	h := &Handle{}
	SetDefaults(h)
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithConfig(c Config) Option {
	return func(h *Handle) {
		h.Config = c
		defaults.MustSet(&h.Config)
	}
}

func WithName(name string) Option {
	return func(h *Handle) { h.Name = name }
}

func WithIdleCallback(cb Callback, arg any) Option {
	return func(h *Handle) {
		h.IdleCallback = cb
		h.IdleArg = arg
	}
}

func WithIdleInterval(d Duration) Option {
	return func(h *Handle) { h.IdleInterval = d }
}

func WithPriority(p int) Option {
	return func(h *Handle) { h.Priority = p }
}

func WithStackSize(n int) Option {
	return func(h *Handle) { h.StackSize = n }
}

func WithQueueCapacity(n int) Option {
	return func(h *Handle) { h.QueueCapacity = n }
}

func WithSendTimeout(d Duration) Option {
	return func(h *Handle) { h.SendTimeout = d }
}

func WithTick(tick time.Duration) Option {
	return func(h *Handle) { h.Tick = tick }
}

func WithSpawner(s Spawner) Option {
	return func(h *Handle) { h.Spawner = s }
}

func WithObserver(o Observer) Option {
	return func(h *Handle) { h.Observer = o }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(h *Handle) { h.Logger = l }
}
