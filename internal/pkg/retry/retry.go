package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultAttempts = 60
	defaultDelay    = 2 * time.Second
	defaultMaxDelay = 10 * time.Second
	defaultTimeout  = 5 * time.Minute
)

// RetryConfig bounds a polling loop: at most Attempts tries, backing off from
// Delay up to MaxDelay, and never longer than Timeout overall.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"60"`
	Delay    time.Duration `env:"DELAY" envDefault:"2s"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"10s"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5m"`
}

func (rc *RetryConfig) ToRetryOptions(ctx context.Context) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(rc.Attempts),
		retry.MaxDelay(rc.MaxDelay),
		retry.Delay(rc.Delay),
		retry.LastErrorOnly(true),
	}
}

// WithTimeout derives the polling deadline from ctx.
func (rc *RetryConfig) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if rc.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, rc.Timeout)
}

// DefaultRetryConfig matches the env defaults, for configs built in code.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts: defaultAttempts,
		Delay:    defaultDelay,
		MaxDelay: defaultMaxDelay,
		Timeout:  defaultTimeout,
	}
}
