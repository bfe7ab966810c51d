package subscription

import "time"

// ApplyCancel moves the subscription to cancelled, stamping the time and
// reason. Calling it again overwrites both; cancellation is idempotent and
// the last reason wins.
func (s *Subscription) ApplyCancel(reason string, now time.Time) {
	s.Status = StatusCancelled
	s.CancelledAt = &now
	s.CancelReason = &reason
}

// ApplyRenew re-anchors the billing period at now and reactivates the
// subscription. Any remaining time on the old period is forfeited. A prior
// cancellation is cleared.
func (s *Subscription) ApplyRenew(now time.Time) {
	s.anchorPeriod(now)
	s.Status = StatusActive
	s.CancelledAt = nil
	s.CancelReason = nil
}

// ApplyPause moves the subscription to paused. Permitted from any state;
// billing dates are left untouched.
func (s *Subscription) ApplyPause() {
	s.Status = StatusPaused
}

// ApplyResume reactivates a paused subscription without recomputing dates.
// Returns ErrNotPaused for any other state.
func (s *Subscription) ApplyResume() error {
	if s.Status != StatusPaused {
		return ErrNotPaused
	}
	s.Status = StatusActive
	return nil
}
