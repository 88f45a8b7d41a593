// Package undoinspect renders a read-only description of an undo.History
// for debugging and CLI display. It never reconstructs a History from a
// report — the engine itself has no persistence format — it only
// describes one that already exists in memory.
package undoinspect
