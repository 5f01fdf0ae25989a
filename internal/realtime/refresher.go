package realtime

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// FetchFunc loads the current days-with-plans view for a trip. In production
// this is DayService.ListWithPlans.
type FetchFunc func(ctx context.Context, tripID uuid.UUID) ([]domain.DayWithPlans, error)

// Snapshot is one complete refresh of a trip's days-with-plans view.
// Seq increases monotonically per refresher; a consumer holding snapshot N
// can discard anything with a lower sequence as stale.
type Snapshot struct {
	Seq  uint64
	Days []domain.DayWithPlans
}

// Refresher subscribes to a trip's change feed and re-fetches the full view
// on any signal ("reload on any signal" — no incremental patching, so there
// is nothing to merge and nothing to conflict). One initial fetch is
// performed before any notification is consumed, so the first snapshot is
// never stale-empty.
//
// Signals that arrive while a fetch is in flight are coalesced into a single
// follow-up fetch, and snapshots carry a sequence number, so a consumer
// never observes an older view after a newer one.
type Refresher struct {
	tripID    uuid.UUID
	fetch     FetchFunc
	sub       *Subscription
	log       *slog.Logger
	cancel    context.CancelFunc
	snapshots chan Snapshot
	done      chan struct{}
}

// NewRefresher subscribes to hub for the trip and starts the refresh loop.
// Fetches run on a context derived from parent, so request-scoped values
// (the caller's identity) flow into them and the loop dies with the caller's
// scope. Callers must Close the refresher when done with it; Close releases
// the subscription (both legs) and the loop together.
func NewRefresher(parent context.Context, hub *Hub, tripID uuid.UUID, fetch FetchFunc, log *slog.Logger) *Refresher {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	r := &Refresher{
		tripID:    tripID,
		fetch:     fetch,
		sub:       hub.Subscribe(tripID),
		log:       log,
		cancel:    cancel,
		snapshots: make(chan Snapshot, 1),
		done:      make(chan struct{}),
	}
	go r.run(ctx)
	return r
}

// Snapshots returns the stream of refreshed views. The channel holds at most
// one pending snapshot: when the consumer lags, older pending snapshots are
// replaced by newer ones (last response wins). Closed after Close.
func (r *Refresher) Snapshots() <-chan Snapshot {
	return r.snapshots
}

// Close tears down the subscription and the refresh loop deterministically.
// Both subscription legs are released together. Idempotent.
func (r *Refresher) Close() {
	r.cancel()
	r.sub.Close()
	<-r.done
}

func (r *Refresher) run(ctx context.Context) {
	defer close(r.done)
	defer close(r.snapshots)

	var seq uint64

	// Initial state: fetch once before consuming any notification.
	seq = r.refresh(ctx, seq)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-r.sub.C():
			if !ok {
				return
			}
			r.drain()
			seq = r.refresh(ctx, seq)
		}
	}
}

// drain coalesces all signals queued behind the one just received into this
// refresh cycle: one re-fetch per notification batch.
func (r *Refresher) drain() {
	for {
		select {
		case _, ok := <-r.sub.C():
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// refresh fetches the view and publishes it with the next sequence number.
// Fetch failures are logged and skipped; the previous snapshot stands and
// the next signal triggers another attempt.
func (r *Refresher) refresh(ctx context.Context, seq uint64) uint64 {
	days, err := r.fetch(ctx, r.tripID)
	if err != nil {
		if ctx.Err() == nil {
			r.log.WarnContext(ctx, "realtime refresh failed",
				"trip_id", r.tripID, "error", err)
		}
		return seq
	}

	seq++
	snap := Snapshot{Seq: seq, Days: days}

	// Latest-wins delivery: replace a pending snapshot the consumer has not
	// taken yet rather than blocking the loop behind it.
	for {
		select {
		case r.snapshots <- snap:
			return seq
		default:
		}
		select {
		case <-r.snapshots:
		default:
		}
	}
}
