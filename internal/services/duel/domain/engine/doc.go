// Package engine runs the duel turn scheduler.
//
// The engine is stateless: every operation takes a combat.State, resolves it
// on a deep copy, and returns the copy with the events it produced. Random
// choices are drawn from a generator derived from the state's seed and cursor,
// so replaying the same operations on the same state yields the same duel.
//
// Game conditions never surface as Go errors. Invalid player input comes back
// as a Rejection with the state untouched apart from one log line, and broken
// invariants panic with *combat.InvariantError.
package engine
