package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/louisbranch/ontsnapping/internal/game/play"
	"github.com/louisbranch/ontsnapping/internal/game/room"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
	apperrors "github.com/louisbranch/ontsnapping/internal/services/web/platform/errors"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/httpx"
	"github.com/louisbranch/ontsnapping/internal/services/web/templates"
)

type page struct {
	title     string
	status    int
	bodyClass string
	body      templ.Component
}

func (h *handlers) writeRoom(w http.ResponseWriter, r *http.Request, current room.Room) {
	tag := h.languages.resolve(w, r, h.policy)
	view := roomView(tag, current)
	h.writePage(w, r, tag, page{
		title:     view.Title,
		status:    http.StatusOK,
		bodyClass: "room-" + string(current.ID),
		body:      templates.RoomPage(view, i18n.Printer(tag)),
	})
}

// writeError logs err and renders the error page for its status.
func (h *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	h.logger.Printf(
		"request failed method=%s path=%s status=%d kind=%s request_id=%s err=%v",
		r.Method,
		r.URL.Path,
		status,
		apperrors.KindOf(err),
		httpx.RequestIDFrom(r),
		err,
	)
	tag, _ := h.languages.tagFor(r)
	loc := i18n.Printer(tag)
	h.writePage(w, r, tag, page{
		title:     templates.ErrorPageTitle(status, loc),
		status:    status,
		bodyClass: "error",
		body:      templates.ErrorPage(status, apperrors.LocalizationKey(err), loc),
	})
}

func (h *handlers) writePage(w http.ResponseWriter, r *http.Request, tag language.Tag, p page) {
	loc := i18n.Printer(tag)
	layout := templates.Layout(templates.LayoutParams{
		Title:     p.title,
		Lang:      tag.String(),
		AppName:   loc.Sprintf("core.app_name"),
		Path:      r.URL.Path,
		Languages: languageOptions(tag),
		BodyClass: p.bodyClass,
	})

	var buf bytes.Buffer
	if err := layout.Render(templ.WithChildren(r.Context(), p.body), &buf); err != nil {
		h.logger.Printf("render page failed path=%s request_id=%s err=%v", r.URL.Path, httpx.RequestIDFrom(r), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	_ = httpx.WriteHTML(w, p.status, buf.String())
}

func roomView(tag language.Tag, current room.Room) templates.RoomView {
	text := play.Describe(tag.String(), current)
	return templates.RoomView{
		ID:          string(current.ID),
		Title:       text.Title,
		Description: text.Description,
		Prompt:      text.Prompt,
		Terminal:    current.Terminal(),
	}
}
