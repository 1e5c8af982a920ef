package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
)

// Controller turns operator intent into robot commands. It owns the recorded
// steps, the origin and destination selection, and the lockout window.
type Controller struct {
	link   ports.RobotLink
	routes *RouteService
	remote ports.RemoteStore
	gate   *ReconnectGate
	clock  ports.Clock
	logger *slog.Logger

	// opMu serializes operator operations; mu guards the fields below it.
	opMu sync.Mutex

	mu          sync.Mutex
	steps       domain.Sequence
	origin      domain.Place
	destination domain.Place
	lockout     domain.Lockout
	observer    ports.MessageSink
}

func NewController(link ports.RobotLink, routes *RouteService, remote ports.RemoteStore, gate *ReconnectGate, clock ports.Clock, logger *slog.Logger) *Controller {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if gate == nil {
		gate = NewReconnectGate(link, nil, 0, logger)
	}

	return &Controller{
		link:        link,
		routes:      routes,
		remote:      remote,
		gate:        gate,
		clock:       clock,
		logger:      logger.With("component", "controller"),
		origin:      domain.PlaceStarting,
		destination: domain.PlaceTable1,
	}
}

// Connect opens the link with the controller as its message sink.
func (c *Controller) Connect(ctx context.Context) error {
	return c.link.Connect(ctx, c.HandleMessage)
}

// Retry answers an outstanding reconnect prompt.
func (c *Controller) Retry(ctx context.Context) (bool, error) {
	return c.gate.Retry(ctx, c.HandleMessage)
}

func (c *Controller) Dismiss() {
	c.gate.Dismiss()
}

// Observe registers fn to receive every inbound message after it was logged.
func (c *Controller) Observe(fn ports.MessageSink) {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
}

func (c *Controller) HandleMessage(msg domain.InboundMessage) {
	c.logger.Debug("inbound message", "type", msg.Type, "raw", string(msg.Raw))

	c.mu.Lock()
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(msg)
	}
}

// Issue sends a single motion. STOP bypasses the lockout and is never
// recorded; other motions are recorded only once they were sent.
func (c *Controller) Issue(ctx context.Context, action domain.Action, units string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	now := c.clock.Now()
	if err := c.lockoutWindow().Check(now, action); err != nil {
		return err
	}

	var step domain.Step
	switch {
	case action == domain.ActionStop:
		return c.transmit(ctx, domain.Sequence{{Action: domain.ActionStop}})
	case action.Turn():
		step = domain.Step{Action: action}
	case action.Linear():
		magnitude, err := domain.ParseUnits(units)
		if err != nil {
			return err
		}
		step = domain.Step{Action: action, Magnitude: magnitude}
	default:
		return fmt.Errorf("%w: unknown action %s", domain.ErrMalformedSequence, action)
	}

	single := domain.Sequence{step}
	if err := c.transmit(ctx, single); err != nil {
		return err
	}

	c.mu.Lock()
	c.steps = append(c.steps, step)
	c.lockout.Arm(now, single)
	c.mu.Unlock()

	return nil
}

// MoveSaved replays the saved route for the current selection.
func (c *Controller) MoveSaved(ctx context.Context) error {
	return c.runSaved(ctx, false)
}

// ReturnSaved replays the reverse of the saved route for the current selection.
func (c *Controller) ReturnSaved(ctx context.Context) error {
	return c.runSaved(ctx, true)
}

func (c *Controller) runSaved(ctx context.Context, reverse bool) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	now := c.clock.Now()
	if err := c.checkLockout(now); err != nil {
		return err
	}

	origin, destination := c.Selection()
	if origin == destination {
		return domain.ErrSameOriginDestination
	}

	route, err := c.routes.Load(ctx, origin, destination)
	if err != nil {
		return err
	}
	if err := route.Sequence.Validate(); err != nil {
		return err
	}

	steps := route.Sequence
	if reverse {
		steps = domain.Reverse(steps)
	}
	if err := c.transmit(ctx, steps); err != nil {
		return err
	}

	c.mu.Lock()
	c.lockout.Arm(now, steps)
	c.mu.Unlock()

	c.logger.Info("saved route sent", "from", origin, "to", destination, "reverse", reverse, "steps", len(steps))
	return nil
}

// Reset drives the recorded steps back in reverse and clears them.
func (c *Controller) Reset(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	now := c.clock.Now()
	if err := c.checkLockout(now); err != nil {
		return err
	}

	steps := c.Steps()
	if len(steps) > 0 {
		back := domain.Reverse(steps)
		if err := c.transmit(ctx, back); err != nil {
			return err
		}
		c.mu.Lock()
		c.lockout.Arm(now, back)
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.steps = nil
	c.mu.Unlock()

	return nil
}

// SaveRoute stores the recorded steps as the route for the current selection.
// Once both stores accepted it the robot is considered at the destination.
func (c *Controller) SaveRoute(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	origin, destination := c.Selection()
	route := domain.Route{Origin: origin, Destination: destination, Sequence: c.Steps()}
	if err := c.routes.Save(ctx, route); err != nil {
		return err
	}

	c.mu.Lock()
	c.steps = nil
	c.origin = destination
	c.mu.Unlock()

	if err := c.remote.UpdateCurrentPosition(ctx, destination); err != nil {
		c.logger.Warn("remote position update failed", "position", destination, "error", err)
	}
	if c.link.IsConnected() {
		if err := c.link.SendPosition(ctx, destination); err != nil {
			c.logger.Warn("position broadcast failed", "position", destination, "error", err)
		}
	}

	return nil
}

func (c *Controller) DeleteRoute(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	origin, destination := c.Selection()
	return c.routes.Delete(ctx, origin, destination)
}

// SetOrigin changes the origin locally, then mirrors it to the remote store.
// A remote failure leaves the local selection in place.
func (c *Controller) SetOrigin(ctx context.Context, place domain.Place) error {
	if !place.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlace, place)
	}

	c.mu.Lock()
	c.origin = place
	c.mu.Unlock()

	if err := c.remote.UpdateCurrentPosition(ctx, place); err != nil {
		return fmt.Errorf("%w: update position: %w", ErrRemoteSync, err)
	}

	return nil
}

func (c *Controller) SetDestination(place domain.Place) error {
	if !place.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPlace, place)
	}

	c.mu.Lock()
	c.destination = place
	c.mu.Unlock()

	return nil
}

// SyncOrigin adopts the remote current position when it names a known place.
func (c *Controller) SyncOrigin(ctx context.Context) (domain.Place, error) {
	raw, err := c.remote.CurrentPosition(ctx)
	if err != nil {
		return c.Origin(), fmt.Errorf("%w: current position: %w", ErrRemoteSync, err)
	}

	place, err := domain.ParsePlace(raw)
	if err != nil {
		c.logger.Debug("ignoring remote position", "value", raw)
		return c.Origin(), nil
	}

	c.mu.Lock()
	c.origin = place
	c.mu.Unlock()

	return place, nil
}

func (c *Controller) OpenDoor(ctx context.Context, index int, action domain.DoorAction) error {
	if !domain.ValidDoor(index) || !action.Valid() {
		return fmt.Errorf("%w: %d %s", domain.ErrInvalidDoor, index, action)
	}
	if err := c.requireLink(); err != nil {
		return err
	}

	if err := c.link.SendDoor(ctx, index, action); err != nil {
		c.requestReconnect()
		return fmt.Errorf("send door command: %w", err)
	}

	return nil
}

func (c *Controller) Steps() domain.Sequence {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(domain.Sequence, len(c.steps))
	copy(out, c.steps)
	return out
}

func (c *Controller) Selection() (domain.Place, domain.Place) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.origin, c.destination
}

func (c *Controller) Origin() domain.Place {
	origin, _ := c.Selection()
	return origin
}

// LockoutWait is the remaining lockout in whole seconds.
func (c *Controller) LockoutWait() int {
	return c.lockoutWindow().Wait(c.clock.Now())
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	steps := make(domain.Sequence, len(c.steps))
	copy(steps, c.steps)
	snapshot := Snapshot{
		Origin:      c.origin,
		Destination: c.destination,
		Steps:       steps,
		LockoutWait: c.lockout.Wait(c.clock.Now()),
	}
	c.mu.Unlock()

	snapshot.Session = c.link.State()
	snapshot.PromptOutstanding = c.gate.Outstanding()

	return snapshot
}

func (c *Controller) lockoutWindow() domain.Lockout {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lockout
}

func (c *Controller) checkLockout(now time.Time) error {
	window := c.lockoutWindow()
	if window.Active(now) {
		return &domain.LockedError{Wait: window.Wait(now)}
	}

	return nil
}

// transmit sends steps followed by a best-effort ack echo.
func (c *Controller) transmit(ctx context.Context, steps domain.Sequence) error {
	if err := c.requireLink(); err != nil {
		return err
	}

	wire := domain.Encode(steps)
	if err := c.link.SendSequence(ctx, wire); err != nil {
		c.requestReconnect()
		return fmt.Errorf("send sequence: %w", err)
	}
	if err := c.link.SendAck(ctx, wire); err != nil {
		c.logger.Warn("sequence ack failed", "seq", wire, "error", err)
	}

	return nil
}

func (c *Controller) requireLink() error {
	if c.link.IsConnected() {
		return nil
	}

	c.requestReconnect()
	return ports.ErrNotConnected
}

func (c *Controller) requestReconnect() {
	c.gate.Request()
}

// IsLocked reports whether err is a lockout rejection.
func IsLocked(err error) bool {
	var locked *domain.LockedError
	return errors.As(err, &locked)
}
