package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/creasty/defaults"

	"github.com/kubev2v/parallel-queue/pkg/pq"
)

type Configuration struct {
	Server     Server      `mapstructure:"server"`
	Demo       Demo        `mapstructure:"demo"`
	Interrupts Interrupts  `mapstructure:"interrupts"`
	Queues     []pq.Config `mapstructure:"queues"`
	LogFormat  string      `default:"console" mapstructure:"log-format"`
	LogLevel   string      `default:"debug" mapstructure:"log-level"`
}

type Server struct {
	ServerMode string `default:"dev" mapstructure:"mode"`
	HTTPPort   int    `default:"8000" mapstructure:"http-port"`
}

type Demo struct {
	Enabled      bool          `mapstructure:"enabled"`
	Queue        string        `default:"PqTask" mapstructure:"queue"`
	IdleInterval pq.Duration   `mapstructure:"idle-interval"`
	SuspendAfter uint64        `default:"5" mapstructure:"suspend-after"`
	IdleWait     time.Duration `default:"8500ms" mapstructure:"idle-wait"`
	Pause        time.Duration `default:"900ms" mapstructure:"pause"`
	RunFor       time.Duration `default:"9s" mapstructure:"run-for"`
	Settle       time.Duration `default:"8s" mapstructure:"settle"`
}

// SetDefaults implements defaults.Setter.
func (d *Demo) SetDefaults() {
	if d.IdleInterval.IsZero() {
		d.IdleInterval = pq.Milliseconds(pq.DefaultIdleIntervalMs)
	}
}

type Interrupts struct {
	Enabled bool    `mapstructure:"enabled"`
	Queue   string  `default:"PqTask" mapstructure:"queue"`
	Rate    float64 `default:"5" mapstructure:"rate"`
	Burst   int     `default:"1" mapstructure:"burst"`
}

// Validate checks the values defaults cannot fix.
func (c *Configuration) Validate() error {
	if c.Server.ServerMode != "dev" && c.Server.ServerMode != "prod" {
		return fmt.Errorf("invalid server mode %q: expected dev or prod", c.Server.ServerMode)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.Server.HTTPPort)
	}
	if c.Interrupts.Enabled && c.Interrupts.Rate <= 0 {
		return fmt.Errorf("invalid interrupt rate %v", c.Interrupts.Rate)
	}

	seen := make(map[string]struct{}, len(c.Queues)+1)
	if c.Demo.Enabled {
		seen[c.Demo.Queue] = struct{}{}
	}
	for _, q := range c.Queues {
		if q.Name == "" {
			return errors.New("queue without a name")
		}
		if _, ok := seen[q.Name]; ok {
			return fmt.Errorf("queue %q defined twice", q.Name)
		}
		if q.SendTimeout.IsInfinite() {
			return fmt.Errorf("queue %q: send timeout must be bounded", q.Name)
		}
		seen[q.Name] = struct{}{}
	}
	return nil
}

// DebugMap returns the configuration as a flat map for logging.
func (c *Configuration) DebugMap() map[string]any {
	m := map[string]any{
		"server.mode":        c.Server.ServerMode,
		"server.http-port":   c.Server.HTTPPort,
		"demo.enabled":       c.Demo.Enabled,
		"demo.queue":         c.Demo.Queue,
		"demo.idle-interval": c.Demo.IdleInterval.String(),
		"interrupts.enabled": c.Interrupts.Enabled,
		"interrupts.queue":   c.Interrupts.Queue,
		"interrupts.rate":    c.Interrupts.Rate,
		"log-format":         c.LogFormat,
		"log-level":          c.LogLevel,
	}
	for i, q := range c.Queues {
		m[fmt.Sprintf("queues.%d", i)] = fmt.Sprintf("%s capacity=%d idle=%s timeout=%s",
			q.Name, q.QueueCapacity, q.IdleInterval, q.SendTimeout)
	}
	return m
}

type ConfigurationOption func(*Configuration)

// NewConfigurationWithOptions returns a Configuration with opts applied and
// no defaults.
func NewConfigurationWithOptions(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewConfigurationWithOptionsAndDefaults returns a Configuration with defaults
// applied, then opts.
func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)
	for _, o := range opts {
		o(c)
	}
	return c
}

func WithServer(s Server) ConfigurationOption {
	return func(c *Configuration) { c.Server = s }
}

func WithDemo(d Demo) ConfigurationOption {
	return func(c *Configuration) { c.Demo = d }
}

func WithInterrupts(i Interrupts) ConfigurationOption {
	return func(c *Configuration) { c.Interrupts = i }
}

func WithQueues(q ...pq.Config) ConfigurationOption {
	return func(c *Configuration) { c.Queues = append(c.Queues, q...) }
}

func WithLogFormat(f string) ConfigurationOption {
	return func(c *Configuration) { c.LogFormat = f }
}

func WithLogLevel(l string) ConfigurationOption {
	return func(c *Configuration) { c.LogLevel = l }
}
