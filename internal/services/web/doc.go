// Package web serves the escape game to browsers.
//
// Each browser holds a session cookie naming a stored session; the session
// records the current room id and every POST /play moves it through the room
// registry. Rendering, language selection and session expiry live here; the
// game rules live in internal/game.
package web
