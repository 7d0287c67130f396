// Package storage declares persistence contracts for player sessions.
//
// A session only records which room a browser is in. It is discarded when it
// expires and is never the source of truth for the room graph itself.
package storage
