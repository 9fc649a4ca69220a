package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/model"
	"github.com/enzomar/agrinote/pkg/logger"
)

// SyncPendingChanges replays the queued offline operations against the
// remote API in original enqueue order, then resyncs the affected resources
// so authoritative server state supersedes the optimistic local records.
//
// A failed replay is kept in the queue with its attempt counter bumped and
// retried on the next reconciliation; an entry that exhausts its attempts is
// dropped with an error log. Operations enqueued while the replay is in
// flight survive untouched. Only one reconciliation pass runs at a time; a
// concurrent call returns immediately.
func (s *Store) SyncPendingChanges(ctx context.Context) {
	if s.offline() {
		return
	}
	if !s.beginReplay() {
		return
	}
	defer s.endReplay()

	affected := make(map[Resource]bool)

	for _, res := range mutableResources {
		queue := s.GetState().PendingSync[res]
		if len(queue) == 0 {
			continue
		}
		affected[res] = true

		retained := make([]PendingOperation, 0, len(queue))
		for _, op := range queue {
			if s.replay(ctx, res, op) {
				continue
			}
			op.Attempts++
			if s.syncMetrics != nil {
				s.syncMetrics.ObserveReplayFailure(string(res), string(op.Action))
			}
			if op.Attempts >= s.cfg.MaxReplayAttempts {
				logger.GetLogger().Error("dropping pending operation after max replay attempts",
					logger.Resource(string(res)),
					zap.String("action", string(op.Action)),
					zap.String("target_id", op.ID),
					zap.Int("attempts", op.Attempts))
				if s.syncMetrics != nil {
					s.syncMetrics.ObserveReplayDropped(string(res), string(op.Action))
				}
				continue
			}
			retained = append(retained, op)
		}

		replayed := len(queue)
		snap := s.update(func(st *AppState) {
			current := st.PendingSync[res]
			if len(current) > replayed {
				// keep anything enqueued while we were replaying
				retained = append(retained, current[replayed:]...)
			}
			st.PendingSync[res] = retained
		})
		s.setPendingGauge(res, len(snap.PendingSync[res]))
	}

	if affected[ResourceTreatments] {
		s.SyncTreatments(ctx)
	}
	if affected[ResourceProducts] {
		s.SyncProducts(ctx)
	}
	if affected[ResourceFertilizations] {
		s.SyncFertilizations(ctx)
	}
}

// replay dispatches one queued operation to the matching service call.
// Returns true when the operation is settled (succeeded, or malformed and
// not worth retrying); false means retry later.
func (s *Store) replay(ctx context.Context, res Resource, op PendingOperation) bool {
	switch res {
	case ResourceTreatments:
		return s.replayTreatment(ctx, op)
	case ResourceProducts:
		return s.replayProduct(ctx, op)
	case ResourceFertilizations:
		return s.replayFertilization(ctx, op)
	}
	return true
}

func (s *Store) replayTreatment(ctx context.Context, op PendingOperation) bool {
	switch op.Action {
	case ActionCreate:
		var t model.Treatment
		if !decodePayload(op.Payload, &t) {
			return true
		}
		localID := t.ID
		t.ID = ""
		created, resp := s.treatments.Create(ctx, t)
		if !resp.Success {
			return false
		}
		s.update(func(st *AppState) {
			for i, existing := range st.Treatments {
				if existing.ID == localID {
					st.Treatments[i] = *created
					return
				}
			}
			st.Treatments = append(st.Treatments, *created)
		})
		return true
	case ActionUpdate:
		var t model.Treatment
		if !decodePayload(op.Payload, &t) {
			return true
		}
		_, resp := s.treatments.Update(ctx, op.ID, t)
		return resp.Success
	case ActionDelete:
		resp := s.treatments.Delete(ctx, op.ID)
		return resp.Success
	}
	return true
}

func (s *Store) replayProduct(ctx context.Context, op PendingOperation) bool {
	switch op.Action {
	case ActionCreate:
		var p model.Product
		if !decodePayload(op.Payload, &p) {
			return true
		}
		localID := p.ID
		p.ID = ""
		created, resp := s.products.Create(ctx, p)
		if !resp.Success {
			return false
		}
		s.update(func(st *AppState) {
			for i, existing := range st.Products {
				if existing.ID == localID {
					st.Products[i] = *created
					return
				}
			}
			st.Products = append(st.Products, *created)
		})
		return true
	case ActionUpdate:
		var p model.Product
		if !decodePayload(op.Payload, &p) {
			return true
		}
		_, resp := s.products.Update(ctx, op.ID, p)
		return resp.Success
	case ActionDelete:
		resp := s.products.Delete(ctx, op.ID)
		return resp.Success
	}
	return true
}

func (s *Store) replayFertilization(ctx context.Context, op PendingOperation) bool {
	switch op.Action {
	case ActionCreate:
		var f model.Fertilization
		if !decodePayload(op.Payload, &f) {
			return true
		}
		localID := f.ID
		f.ID = ""
		created, resp := s.fertilizations.Create(ctx, f)
		if !resp.Success {
			return false
		}
		s.update(func(st *AppState) {
			for i, existing := range st.Fertilizations {
				if existing.ID == localID {
					st.Fertilizations[i] = *created
					return
				}
			}
			st.Fertilizations = append(st.Fertilizations, *created)
		})
		return true
	case ActionUpdate:
		var f model.Fertilization
		if !decodePayload(op.Payload, &f) {
			return true
		}
		_, resp := s.fertilizations.Update(ctx, op.ID, f)
		return resp.Success
	case ActionDelete:
		resp := s.fertilizations.Delete(ctx, op.ID)
		return resp.Success
	}
	return true
}

// decodePayload unmarshals a queued payload. A payload that no longer
// parses can never replay; it is logged and treated as settled.
func decodePayload(payload json.RawMessage, target interface{}) bool {
	if err := json.Unmarshal(payload, target); err != nil {
		logger.GetLogger().Error("discarding malformed pending payload", zap.Error(err))
		return false
	}
	return true
}
