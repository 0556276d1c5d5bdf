// Package watch wires the single-shot monitoring runs: fetch, evaluate,
// notify, exit. One pass per invocation; an external scheduler owns the
// periodicity.
package watch
