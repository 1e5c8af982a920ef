package domain

import (
	"fmt"
	"time"
)

// LockedError rejects a motion issued before the lockout window expired.
type LockedError struct {
	Wait int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("please wait %d seconds", e.Wait)
}

// Lockout is the window during which new non-stop motions are rejected. The zero
// value is expired.
type Lockout struct {
	until time.Time
}

// Arm extends the window to cover steps issued at now.
func (l *Lockout) Arm(now time.Time, steps Sequence) {
	l.until = LockoutDeadline(now, steps)
}

func (l Lockout) Until() time.Time {
	return l.until
}

func (l Lockout) Active(now time.Time) bool {
	return now.Before(l.until)
}

func (l Lockout) Remaining(now time.Time) time.Duration {
	if !l.Active(now) {
		return 0
	}

	return l.until.Sub(now)
}

// Wait is the remaining window in whole seconds, rounded up.
func (l Lockout) Wait(now time.Time) int {
	remaining := l.Remaining(now)
	if remaining <= 0 {
		return 0
	}

	wait := remaining / unitDuration
	if remaining%unitDuration != 0 {
		wait++
	}

	return int(wait)
}

// Check returns a *LockedError when action may not be issued at now. STOP is
// always allowed.
func (l Lockout) Check(now time.Time, action Action) error {
	if action == ActionStop || !l.Active(now) {
		return nil
	}

	return &LockedError{Wait: l.Wait(now)}
}
