package web

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
	"github.com/louisbranch/ontsnapping/internal/services/web/templates"
)

// langCookieName stores the player's language preference.
const langCookieName = "ontsnapping_lang"

const langCookieMaxAge = 365 * 24 * time.Hour

type languageResolver struct {
	fallback language.Tag
}

// resolve picks the display language: the lang query parameter, then the
// language cookie, then Accept-Language, then the configured fallback. A
// valid lang parameter is persisted to the cookie.
func (l languageResolver) resolve(w http.ResponseWriter, r *http.Request, policy requestmeta.Policy) language.Tag {
	tag, persist := l.tagFor(r)
	if persist {
		setLanguageCookie(w, r, policy, tag)
	}
	return tag
}

func (l languageResolver) tagFor(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return l.fallbackTag(), false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(routepath.LangParam)); value != "" {
		if tag, ok := i18n.ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(langCookieName); err == nil {
		if tag, ok := i18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			if tag, ok := i18n.Match(tags...); ok {
				return tag, false
			}
		}
	}
	return l.fallbackTag(), false
}

func (l languageResolver) fallbackTag() language.Tag {
	if l.fallback == language.Und {
		return i18n.DefaultTag()
	}
	return l.fallback
}

func setLanguageCookie(w http.ResponseWriter, r *http.Request, policy requestmeta.Policy, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     langCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(langCookieMaxAge / time.Second),
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// languageOptions lists every supported language labelled in its own tongue.
func languageOptions(active language.Tag) []templates.LanguageOption {
	supported := i18n.SupportedTags()
	options := make([]templates.LanguageOption, 0, len(supported))
	for _, tag := range supported {
		options = append(options, templates.LanguageOption{
			Tag:    tag.String(),
			Label:  i18n.Printer(tag).Sprintf(i18n.LabelKey(tag)),
			Active: tag == active,
		})
	}
	return options
}
