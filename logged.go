package mcp2515

import (
	"context"
	"log/slog"
)

// LoggedBus is a Bus decorator that logs operations using a slog.Logger.

// LogOption is a bitmask for selecting which operations to log.
type LogOption uint8

const (
	LogNone     LogOption = 0
	LogExchange LogOption = 1 << iota
	LogSelect
	LogAll = LogExchange | LogSelect
)

// NewLoggedBus wraps the given Bus and logs selected operations at the
// given level. Errors within an enabled operation kind are logged at error
// level. Interrupt polls are forwarded without logging; they run far too
// often to be worth a record each.
func NewLoggedBus(inner Bus, logger *slog.Logger, level slog.Level, opts LogOption) Bus {
	return &loggedBus{
		inner:  inner,
		logger: logger,
		level:  level,
		opts:   opts,
	}
}

type loggedBus struct {
	inner  Bus
	logger *slog.Logger
	level  slog.Level
	opts   LogOption
}

// Exchange logs the bytes shifted each way when exchange logging is
// enabled.
func (l *loggedBus) Exchange(out byte) (byte, error) {
	in, err := l.inner.Exchange(out)
	if l.opts&LogExchange != 0 {
		if err != nil {
			l.logger.Log(context.Background(), slog.LevelError, "mcp2515 exchange error",
				"out", out,
				"error", err,
			)
		} else {
			l.logger.Log(context.Background(), l.level, "mcp2515 exchange",
				"out", out,
				"in", in,
			)
		}
	}
	return in, err
}

// Select logs the chip-select assertion when select logging is enabled.
func (l *loggedBus) Select() error {
	err := l.inner.Select()
	l.logSelect("mcp2515 select", err)
	return err
}

// Deselect logs the chip-select deassertion when select logging is
// enabled.
func (l *loggedBus) Deselect() error {
	err := l.inner.Deselect()
	l.logSelect("mcp2515 deselect", err)
	return err
}

func (l *loggedBus) logSelect(msg string, err error) {
	if l.opts&LogSelect == 0 {
		return
	}
	if err != nil {
		l.logger.Log(context.Background(), slog.LevelError, msg+" error", "error", err)
		return
	}
	l.logger.Log(context.Background(), l.level, msg)
}

// Interrupt forwards to the inner Bus without logging.
func (l *loggedBus) Interrupt() (bool, error) {
	return l.inner.Interrupt()
}

// Close forwards to the inner Bus without logging.
func (l *loggedBus) Close() error {
	return l.inner.Close()
}
