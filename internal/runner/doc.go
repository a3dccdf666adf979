// Package runner drives one non-interactive session: it streams model
// output, dispatches requested tool calls sequentially, feeds results
// back, and repeats until the model stops requesting tools, the turn
// budget runs out, the run is cancelled, or a fatal error occurs.
//
// Invariants:
//   - Tool calls within one turn run strictly in arrival order, never
//     concurrently, so observability output and the synthesized result
//     turn keep deterministic ordering.
//   - A functionCall and the functionResponse answering it stay
//     adjacent within a turn.
package runner
