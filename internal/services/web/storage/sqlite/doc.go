// Package sqlite provides the session store backed by SQLite.
//
// Sessions survive restarts of the web process; nothing else is persisted.
package sqlite
