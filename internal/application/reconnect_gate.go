package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/robotctl/internal/ports"
)

const DefaultRetrySettle = 300 * time.Millisecond

// ReconnectGate keeps at most one reconnect prompt outstanding.
type ReconnectGate struct {
	link     ports.RobotLink
	prompter ports.ReconnectPrompter
	settle   time.Duration
	logger   *slog.Logger

	mu                sync.Mutex
	promptOutstanding bool
}

func NewReconnectGate(link ports.RobotLink, prompter ports.ReconnectPrompter, settle time.Duration, logger *slog.Logger) *ReconnectGate {
	if settle < 0 {
		settle = DefaultRetrySettle
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ReconnectGate{
		link:     link,
		prompter: prompter,
		settle:   settle,
		logger:   logger.With("component", "reconnect-gate"),
	}
}

// Request shows the prompt unless one is already outstanding and reports
// whether it did.
func (g *ReconnectGate) Request() bool {
	g.mu.Lock()
	if g.promptOutstanding {
		g.mu.Unlock()
		return false
	}
	g.promptOutstanding = true
	g.mu.Unlock()

	g.logger.Info("robot link unavailable, prompting for reconnect")
	if g.prompter != nil {
		g.prompter.ShowReconnectPrompt()
	}

	return true
}

func (g *ReconnectGate) Dismiss() {
	g.release()
}

func (g *ReconnectGate) Outstanding() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.promptOutstanding
}

// Retry reconnects, waits for the attempt to settle, then re-samples
// connectivity and releases the prompt. The dial error is returned alongside
// the sampled state.
func (g *ReconnectGate) Retry(ctx context.Context, sink ports.MessageSink) (bool, error) {
	defer g.release()

	connectErr := g.link.Connect(ctx, sink)
	if connectErr != nil {
		g.logger.Warn("reconnect attempt failed", "error", connectErr)
	}

	if g.settle > 0 {
		timer := time.NewTimer(g.settle)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return g.link.IsConnected(), ctx.Err()
		}
	}

	connected := g.link.IsConnected()
	g.logger.Info("reconnect attempt settled", "connected", connected)

	return connected, connectErr
}

func (g *ReconnectGate) release() {
	g.mu.Lock()
	g.promptOutstanding = false
	g.mu.Unlock()
}
