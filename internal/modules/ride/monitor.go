// README: Stale-ride monitor force-cancels rides stuck before the trip starts.
package ride

import (
	"context"
	"time"

	"hail/internal/config"
	"hail/internal/observability"
)

// RunStaleMonitor periodically cancels requested/accepted rides that have not
// progressed within the configured age. It uses the same CAS transition as
// every other path, so an operation racing the monitor simply loses the
// version check.
func (s *Service) RunStaleMonitor(ctx context.Context, cfg config.StaleConfig) {
	ticker := time.NewTicker(time.Duration(cfg.TickSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.CancelStale(ctx, time.Duration(cfg.AfterMins)*time.Minute)
			if err != nil {
				s.log.Error("stale sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("cancelled stale rides", "count", n)
			}
		}
	}
}

// CancelStale cancels every non-terminal ride older than the given age and
// returns how many it cancelled. Rides that progress concurrently are skipped.
func (s *Service) CancelStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.store.ListStale(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, r := range stale {
		if !CanTransition(r.Status, StatusCancelled) {
			continue
		}
		ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusCancelled, r.StatusVersion)
		if err != nil {
			return cancelled, err
		}
		if !ok {
			continue
		}
		cancelled++
		observability.StaleCancelled.Inc()
		observability.RideTransitions.WithLabelValues(string(StatusCancelled)).Inc()
		_ = s.store.AppendEvent(ctx, &Event{
			RideID:     r.ID,
			FromStatus: r.Status,
			ToStatus:   StatusCancelled,
			ActorType:  "system",
			CreatedAt:  time.Now(),
		})
	}
	return cancelled, nil
}
