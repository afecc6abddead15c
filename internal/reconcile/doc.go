// Package reconcile orchestrates one reconciliation pass: recover a task
// event from the hook's input sources, resolve the transient identifier to a
// durable ledger ID, mutate the ledger, and keep the identity map and
// sidecar metadata store in step.
//
// # Flow
//
// Each invocation moves through extract -> resolve -> mutate -> persist.
// There is no long-lived state; every run reads the stores fresh and writes
// them atomically, so concurrent invocations from other sessions interleave
// at whole-file granularity.
//
// # Failure Posture
//
// The driver is called from an event hook that must never stall or crash
// the agent producing events. Nothing escapes Run as a fault: extraction
// misses become a benign no-event result, unresolvable identities become
// explicit skips, persistence errors become {ok:false} results, and even
// panics are converted into a structured failure. The caller decides only
// how to render the Result.
//
// # Identity Registration
//
// A create registers the new durable ID under every key the event can be
// known by: the raw tool-call ID plus the session-scoped numeric key (or,
// for sessionless events, the legacy unscoped numeric key), using a
// regex-recovered numeric id when structured extraction found none. The
// redundancy is intentional: a later update may arrive through a different
// channel exposing only one of those handles. Numeric registrations from a
// known session never mint the unscoped key, and resolution consults it
// only after the session-scoped key, so a completion from one session
// cannot claim another session's entry. The driver never guesses a durable
// ID it cannot prove through the map -- a wrong guess would silently
// complete someone else's task.
package reconcile
