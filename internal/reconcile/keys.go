package reconcile

import (
	"regexp"

	"github.com/anthropics/aef/taskledger/internal/hookevent"
)

var (
	// durableIDPattern recognizes an identifier that is already a ledger ID
	// and needs no mapping at all.
	durableIDPattern = regexp.MustCompile(`^T\d{3,}$`)

	numericPattern = regexp.MustCompile(`^\d+$`)

	// recoveredIDPattern fishes a numeric task id out of raw event bytes
	// when structured extraction found none.
	recoveredIDPattern = regexp.MustCompile(`(?i)"(?:task_?id|id)"\s*:\s*"?(\d+)`)
)

func sessionKey(sessionID, numericID string) string {
	return sessionID + "_task_" + numericID
}

func legacyKey(numericID string) string {
	return "task_" + numericID
}

// eventNumericID returns the tool-assigned numeric task id carried by the
// event, preferring the response-channel id over the input-channel one.
func eventNumericID(ev *hookevent.Event) string {
	for _, candidate := range []string{
		ev.Field(hookevent.FieldResponseTaskID),
		ev.Field(hookevent.FieldTaskID),
	} {
		if numericPattern.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}

// registrationKeys derives every mapping key a freshly created task should
// be registered under. Multiple keys per task is intentional redundancy: a
// later update succeeds if it can produce any one of them. Numeric ids from
// a known session register only under the session-scoped key; the unscoped
// legacy key is written solely for sessionless events, so a numeric id from
// one session can never satisfy a completion arriving from another.
func registrationKeys(ev *hookevent.Event) []string {
	var keys []string
	add := func(k string) {
		if k == "" {
			return
		}
		for _, existing := range keys {
			if existing == k {
				return
			}
		}
		keys = append(keys, k)
	}

	add(ev.TransientID)

	numID := eventNumericID(ev)
	if numID == "" {
		// Best-effort recovery from the raw bytes the event came from.
		if m := recoveredIDPattern.FindSubmatch(ev.Raw); m != nil {
			numID = string(m[1])
		}
	}
	if numID != "" {
		if ev.SessionID != "" {
			add(sessionKey(ev.SessionID, numID))
		} else {
			add(legacyKey(numID))
		}
	}

	return keys
}

// resolutionCandidates orders the mapping keys an update may resolve
// through: session-scoped first, then the legacy unscoped key, then direct
// raw-key lookups. The legacy key stays in the chain so maps written before
// session scoping existed keep resolving; new registrations only mint it
// for sessionless events.
func resolutionCandidates(ev *hookevent.Event, rawID string) []string {
	var keys []string
	if numericPattern.MatchString(rawID) {
		if ev.SessionID != "" {
			keys = append(keys, sessionKey(ev.SessionID, rawID))
		}
		keys = append(keys, legacyKey(rawID))
	}
	if rawID != "" {
		keys = append(keys, rawID)
	}
	if ev.TransientID != "" {
		keys = append(keys, ev.TransientID)
	}
	return keys
}
