package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/tripdesk/backend/internal/realtime"
)

// heartbeatInterval keeps intermediaries from timing out an idle SSE stream.
const heartbeatInterval = 25 * time.Second

// streamTrip handles GET /trips/{tripID}/stream: a server-sent-events feed
// of the trip's days-with-plans view. One "snapshot" event is emitted
// immediately, then one per change-notification batch on the trip's days or
// any day plan. The stream ends when the client disconnects; closing it
// releases both change subscriptions together.
func (s *Server) streamTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	if s.hub == nil {
		respondError(w, http.StatusNotFound, "not_found", "realtime stream not available")
		return
	}

	// Authorize before committing to the event stream; once streaming starts
	// there is no clean way to signal an HTTP error.
	if _, err := s.days.ListWithPlans(r.Context(), tripID); err != nil {
		respondDomainError(w, s.log, err, "trip not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "internal_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ref := s.newRefresher(r, tripID)
	defer ref.Close()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case snap, ok := <-ref.Snapshots():
			if !ok {
				return
			}
			s.writeSnapshot(w, flusher, snap)
		}
	}
}

// newRefresher starts a refresher scoped to the request: its fetches carry
// the caller's identity and it dies with the request context.
func (s *Server) newRefresher(r *http.Request, tripID uuid.UUID) *realtime.Refresher {
	return realtime.NewRefresher(r.Context(), s.hub, tripID, s.days.ListWithPlans, s.log)
}

// writeSnapshot emits one SSE "snapshot" event.
func (s *Server) writeSnapshot(w http.ResponseWriter, flusher http.Flusher, snap realtime.Snapshot) {
	payload, err := json.Marshal(struct {
		Seq  uint64             `json:"seq"`
		Days []dayWithPlansJSON `json:"days"`
	}{Seq: snap.Seq, Days: viewToJSON(snap.Days)})
	if err != nil {
		s.log.Error("snapshot encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	flusher.Flush()
}
