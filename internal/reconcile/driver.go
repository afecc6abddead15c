package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anthropics/aef/taskledger/internal/hookevent"
	"github.com/anthropics/aef/taskledger/internal/identity"
	"github.com/anthropics/aef/taskledger/internal/ledger"
	"github.com/anthropics/aef/taskledger/internal/sidecar"
)

// fallbackDescription names tasks whose event carried no usable text.
const fallbackDescription = "Unnamed task"

// Reconciler drives one reconciliation pass over the three stores. It is the
// sole writer of all three for the duration of a Run; cross-process safety
// comes from each store's atomic whole-file replacement, not from locking.
type Reconciler struct {
	ledger *ledger.Ledger
	ids    *identity.Store
	meta   *sidecar.Store
}

// New wires a Reconciler over the given stores.
func New(l *ledger.Ledger, ids *identity.Store, meta *sidecar.Store) *Reconciler {
	return &Reconciler{ledger: l, ids: ids, meta: meta}
}

// Run extracts a task event from the sources and applies it. It never
// returns an error and never panics outward; every outcome, benign or not,
// is a Result.
func (r *Reconciler) Run(src hookevent.Sources) (res Result) {
	log := slog.With("invocation", uuid.NewString()[:8])

	defer func() {
		if p := recover(); p != nil {
			log.Error("reconciliation panicked", "panic", p)
			res = Result{OK: false, Error: fmt.Sprintf("internal error: %v", p)}
		}
	}()

	ev := hookevent.Extract(src)
	if ev == nil {
		log.Debug("no task event in any source")
		return Result{OK: true, Reason: "no task event detected"}
	}

	log = log.With("verb", ev.Verb, "session", ev.SessionID)

	switch ev.Verb {
	case hookevent.VerbCreate:
		return r.create(ev, log)
	case hookevent.VerbUpdate:
		return r.update(ev, log)
	}

	// Extract only emits the two verbs above; anything else is a bug.
	return skipped("unsupported verb %q", ev.Verb)
}

func (r *Reconciler) create(ev *hookevent.Event, log *slog.Logger) Result {
	desc := ev.Field(hookevent.FieldDescription)
	if desc == "" {
		desc = ev.Field(hookevent.FieldSubject)
	}
	if desc == "" {
		desc = fallbackDescription
	}

	id, err := r.ledger.Create(desc)
	if err != nil {
		log.Error("ledger create failed", "error", err)
		return failed(err)
	}
	log.Info("ledger entry created", "id", id)

	if err := r.meta.Put(id, sidecar.Attributes{
		Description: desc,
		Priority:    ev.Field(hookevent.FieldPriority),
		Category:    ev.Field(hookevent.FieldCategory),
	}); err != nil {
		log.Error("sidecar write failed", "id", id, "error", err)
		return Result{OK: false, DurableID: id, Error: err.Error()}
	}

	keys := registrationKeys(ev)
	if conflicts, err := r.ids.Register(id, keys...); err != nil {
		log.Error("identity registration failed", "id", id, "error", err)
		return Result{OK: false, DurableID: id, Error: err.Error()}
	} else if len(conflicts) > 0 {
		log.Warn("identity keys already claimed", "id", id, "conflicts", conflicts)
	}
	log.Debug("identity keys registered", "id", id, "keys", keys)

	return Result{OK: true, Action: ActionCreated, DurableID: id}
}

func (r *Reconciler) update(ev *hookevent.Event, log *slog.Logger) Result {
	status := ev.Field(hookevent.FieldStatus)
	if status != "completed" {
		log.Debug("update status requires no ledger change", "status", status)
		return skipped("status %q requires no ledger change", status)
	}

	rawID := ev.Field(hookevent.FieldTaskID)
	if rawID == "" {
		rawID = ev.Field(hookevent.FieldResponseTaskID)
	}
	if rawID == "" && ev.TransientID == "" {
		return skipped("completion event carries no task identifier")
	}

	durableID, result := r.resolve(ev, rawID, log)
	if durableID == "" {
		return result
	}

	done, err := r.ledger.Complete(durableID)
	if err != nil {
		log.Error("ledger complete failed", "id", durableID, "error", err)
		return failed(err)
	}
	if !done {
		// Already completed, or the mapping points at a vanished entry.
		log.Info("no open ledger entry to complete", "id", durableID)
		return skipped("%s has no open ledger entry", durableID)
	}

	log.Info("ledger entry completed", "id", durableID)
	return Result{OK: true, Action: ActionCompleted, DurableID: durableID}
}

// resolve maps the event's identifier to a durable ledger ID, or returns
// the skip Result explaining why it could not. An identifier that is
// already in durable form is used as-is; everything else must prove itself
// through the identity map.
func (r *Reconciler) resolve(ev *hookevent.Event, rawID string, log *slog.Logger) (string, Result) {
	if durableIDPattern.MatchString(rawID) {
		return rawID, Result{}
	}

	candidates := resolutionCandidates(ev, rawID)
	durableID, found, err := r.ids.Resolve(candidates...)
	if err != nil {
		log.Error("identity lookup failed", "error", err)
		return "", failed(err)
	}
	if !found {
		display := rawID
		if display == "" {
			display = ev.TransientID
		}
		log.Info("no identity mapping", "task_id", display, "candidates", candidates)
		return "", skipped("cannot map task ID: %s - no mapping found", display)
	}
	return durableID, Result{}
}
