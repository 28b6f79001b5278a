// internal/bridge/poller.go
package bridge

import (
	"context"
	"errors"
	"time"
)

// Source abstracts the device session: one inbound snapshot per call. The
// returned slice may be a reused staging buffer; the poller copies it.
type Source interface {
	Read() ([]byte, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
}

// Poller is a dumb, clock-driven snapshot reader.
type Poller struct {
	cfg Config
	src Source
}

// New creates a poller with immutable config.
func New(cfg Config, src Source) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	return &Poller{cfg: cfg, src: src}, nil
}

// PollOnce performs exactly one snapshot cycle.
// All-or-nothing: a failed read produces a result with no data.
func (p *Poller) PollOnce() SnapshotResult {
	res := SnapshotResult{At: time.Now()}

	data, err := p.src.Read()
	if err != nil {
		res.Err = err
		return res
	}

	// Detach from the session's staging buffer.
	res.Data = make([]byte, len(data))
	copy(res.Data, data)
	return res
}

// Run starts the ticker loop and emits SnapshotResult on the provided
// channel. One goroutine. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- SnapshotResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			out <- p.PollOnce()
		}
	}
}
