// Package linz checks whether a concurrent data structure is
// linearizable with respect to a sequential reference implementation.
// It records a timed history of a randomly generated scenario run
// under a deterministic interleaving scheduler (schedule), then
// backtracking-searches the happens-before DAG for a linearization
// (checker). Verifier ties generation (gen), execution (executor),
// checking (checker), and reporting (pretty) into one harness.
package linz
