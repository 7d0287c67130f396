package templates

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
)

const (
	errorPageTitleNotFoundKey  = "web.error.page_title_not_found"
	errorPageTitleServerErrKey = "web.error.page_title_server_error"
	errorHeadingNotFoundKey    = "web.error.title_not_found"
	errorHeadingServerErrKey   = "web.error.title_server_error"
	errorMessageNotFoundKey    = "web.error.message_not_found"
	errorMessageServerErrKey   = "web.error.message_server_error"
	errorRestartKey            = "web.error.action_restart"
)

// ErrorPageTitle returns the browser page title for an error status.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, errorPageTitleNotFoundKey)
	}
	return T(loc, errorPageTitleServerErrKey)
}

// ErrorPage renders an error explanation with a link to start over.
// detailKey, when set, names a catalog message shown under the heading.
func ErrorPage(statusCode int, detailKey string, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		headingKey, messageKey := errorHeadingServerErrKey, errorMessageServerErrKey
		if statusCode == http.StatusNotFound {
			headingKey, messageKey = errorHeadingNotFoundKey, errorMessageNotFoundKey
		}
		p := printer{w: w}
		p.raw(`<section class="error"><h1>`)
		p.text(T(loc, headingKey))
		p.raw(`</h1>`)
		if detailKey = strings.TrimSpace(detailKey); detailKey != "" {
			p.raw(`<p class="detail">`)
			p.text(T(loc, detailKey))
			p.raw(`</p>`)
		}
		p.raw(`<p>`)
		p.text(T(loc, messageKey))
		p.raw(`</p><p><a class="button" href="`)
		p.text(routepath.Root)
		p.raw(`">`)
		p.text(T(loc, errorRestartKey))
		p.raw(`</a></p></section>`)
		return p.err
	})
}
