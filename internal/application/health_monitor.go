package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/robotctl/internal/ports"
)

type HealthMonitorConfig struct {
	// Interval is the connectivity poll period.
	Interval time.Duration
	// ClockTick is the lockout countdown refresh period.
	ClockTick time.Duration
	// OnCountdown receives the lockout wait in seconds whenever it changes.
	OnCountdown func(wait int)
	Logger      *slog.Logger
}

func DefaultHealthMonitorConfig() HealthMonitorConfig {
	return HealthMonitorConfig{
		Interval:  1500 * time.Millisecond,
		ClockTick: 250 * time.Millisecond,
	}
}

// HealthMonitor runs the connectivity poll and the countdown tick. Stop tears
// both down together with the link.
type HealthMonitor struct {
	config    HealthMonitorConfig
	link      ports.RobotLink
	gate      *ReconnectGate
	countdown func() int
	logger    *slog.Logger

	lastWait int

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewHealthMonitor(link ports.RobotLink, gate *ReconnectGate, countdown func() int, config HealthMonitorConfig) *HealthMonitor {
	defaults := DefaultHealthMonitorConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.ClockTick <= 0 {
		config.ClockTick = defaults.ClockTick
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &HealthMonitor{
		config:    config,
		link:      link,
		gate:      gate,
		countdown: countdown,
		logger:    config.Logger.With("component", "health-monitor"),
		lastWait:  -1,
		stopCh:    make(chan struct{}),
	}
}

func (m *HealthMonitor) Start() {
	m.wg.Add(1)
	go m.run()
}

// Stop halts both timers and closes the link.
func (m *HealthMonitor) Stop() error {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	m.wg.Wait()

	return m.link.Close()
}

func (m *HealthMonitor) run() {
	defer m.wg.Done()

	poll := time.NewTicker(m.config.Interval)
	defer poll.Stop()
	tick := time.NewTicker(m.config.ClockTick)
	defer tick.Stop()

	for {
		select {
		case <-poll.C:
			m.poll()
		case <-tick.C:
			m.tick()
		case <-m.stopCh:
			return
		}
	}
}

func (m *HealthMonitor) poll() {
	if !m.link.IsConnected() {
		if m.gate != nil {
			m.gate.Request()
		}
		return
	}

	if m.link.State().HelloSent {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.Interval)
	defer cancel()
	if err := m.link.SendControllerConnected(ctx); err != nil {
		m.logger.Warn("controller hello failed", "error", err)
	}
}

func (m *HealthMonitor) tick() {
	if m.countdown == nil {
		return
	}

	wait := m.countdown()
	if wait == m.lastWait {
		return
	}
	m.lastWait = wait

	if m.config.OnCountdown != nil {
		m.config.OnCountdown(wait)
	}
}
