// Package templates renders the game pages as templ components.
package templates
