// Package routepath stores canonical HTTP paths for the game.
package routepath

import "net/url"

const (
	Root         = "/"
	Play         = "/play"
	Health       = "/up"
	StaticPrefix = "/static/"
	Stylesheet   = StaticPrefix + "style.css"
)

// LangParam is the query parameter that selects the display language.
const LangParam = "lang"

// WithLang returns path with the lang query parameter set to tag.
func WithLang(path string, tag string) string {
	return path + "?" + url.Values{LangParam: {tag}}.Encode()
}
