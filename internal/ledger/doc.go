// Package ledger mutates the durable, human-readable task ledger.
//
// # Document Model
//
// The ledger is a markdown file (TODO.md by default) owned by humans and
// agents alike. This package only ever touches two sections of it:
//
//   - "## Tasks" holds one entry line per task. Open entries look like
//
//     - [ ] T012: Implement login @claude [worklog: pending] (created: 2025-01-25 10:00)
//
//     and completed entries like
//
//     - [x] T012: Implement login @claude [worklog: pending] (completed: 2025-01-25 16:30)
//
//   - "## History" receives one free-text line per mutation.
//
// Everything outside those sections is preserved byte-for-byte. The file is
// parsed into a line-preserving document rather than spliced as a raw
// string, so section-scoped search and replace stays verifiable.
//
// # Durable IDs
//
// IDs are "T" followed by a zero-padded decimal, minimum three digits,
// assigned as max(existing)+1 within the Tasks section. Two concurrent
// creators reading the same stale maximum can mint the same ID; with no lock
// manager on the shared filesystem this is accepted as a low-probability
// race rather than designed away.
//
// # Writes
//
// Every mutation is a whole-file read, an in-memory rewrite, and an atomic
// temp-file+rename replace, keeping the read-modify-write window as short as
// possible.
package ledger
