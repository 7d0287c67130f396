// Package room owns the escape game graph: rooms, their transition tables and
// the traversal from a current room plus raw player input to the next room.
//
// The registry is built once and never written afterwards, so a single
// instance is shared by every request and frontend without locking.
package room
