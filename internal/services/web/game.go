package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/louisbranch/ontsnapping/internal/game/play"
	"github.com/louisbranch/ontsnapping/internal/game/room"
	"github.com/louisbranch/ontsnapping/internal/platform/id"
	apperrors "github.com/louisbranch/ontsnapping/internal/services/web/platform/errors"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/httpx"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
	"github.com/louisbranch/ontsnapping/internal/services/web/templates"
	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
)

const maxFormBytes = 16 << 10

type handlers struct {
	game       *play.Game
	store      webstorage.Store
	sessionTTL time.Duration
	now        func() time.Time
	policy     requestmeta.Policy
	languages  languageResolver
	logger     *log.Logger
}

// handleIndex starts a new game in the start room, replacing any session the
// browser already holds.
func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.languages.resolve(w, r, h.policy)
	ctx := r.Context()

	if previous, ok := sessioncookie.Read(r); ok {
		if err := h.store.DeleteSession(ctx, previous); err != nil {
			h.logger.Printf("delete previous session failed session_id=%s err=%v", previous, err)
		}
	}

	sessionID, err := id.NewID()
	if err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "web.error.session_unavailable", err))
		return
	}
	now := h.now().UTC()
	session := webstorage.Session{
		ID:        sessionID,
		RoomID:    string(h.game.Start().ID),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: h.expiry(now),
	}
	if err := h.store.CreateSession(ctx, session); err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "web.error.session_unavailable", err))
		return
	}
	sessioncookie.Write(w, r, h.policy, sessionID, h.sessionTTL)
	httpx.WriteRedirect(w, r, routepath.Play)
}

func (h *handlers) handlePlayGet(w http.ResponseWriter, r *http.Request) {
	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	current, err := h.game.Room(room.ID(session.RoomID))
	if err != nil {
		h.writeError(w, r, roomError(err))
		return
	}
	h.writeRoom(w, r, current)
}

// handlePlayPost applies the submitted command to the session's room. The
// input is passed on untrimmed; matching is exact.
func (h *handlers) handlePlayPost(w http.ResponseWriter, r *http.Request) {
	if !h.policy.SameOrigin(r) {
		h.writeError(w, r, apperrors.EK(apperrors.KindForbidden, "web.error.forbidden", "missing same-origin proof"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "web.error.invalid_input", err))
		return
	}

	session, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	input := r.PostFormValue(templates.InputField)
	next, err := h.game.Advance(r.Context(), room.ID(session.RoomID), input)
	if err != nil {
		h.writeError(w, r, roomError(err))
		return
	}

	now := h.now().UTC()
	err = h.store.UpdateSessionRoom(r.Context(), session.ID, string(next.ID), now, h.expiry(now))
	switch {
	case errors.Is(err, webstorage.ErrSessionNotFound):
		httpx.WriteRedirect(w, r, routepath.Root)
		return
	case err != nil:
		h.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "web.error.session_unavailable", err))
		return
	}
	httpx.WriteRedirect(w, r, routepath.Play)
}

func (h *handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperrors.E(apperrors.KindNotFound, "no route for "+r.URL.Path))
}

// loadSession returns the live session named by the cookie. Missing or
// expired sessions redirect to the index, which starts a new game.
func (h *handlers) loadSession(w http.ResponseWriter, r *http.Request) (webstorage.Session, bool) {
	sessionID, ok := sessioncookie.Read(r)
	if !ok {
		httpx.WriteRedirect(w, r, routepath.Root)
		return webstorage.Session{}, false
	}
	session, found, err := h.store.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "web.error.session_unavailable", err))
		return webstorage.Session{}, false
	}
	if !found {
		sessioncookie.Clear(w, r, h.policy)
		httpx.WriteRedirect(w, r, routepath.Root)
		return webstorage.Session{}, false
	}
	return session, true
}

func (h *handlers) expiry(now time.Time) time.Time {
	if h.sessionTTL <= 0 {
		return time.Time{}
	}
	return now.Add(h.sessionTTL)
}

// roomError classifies registry failures. A stored room id the registry does
// not know is corrupt state, not a player mistake.
func roomError(err error) error {
	if errors.Is(err, room.ErrRoomNotFound) {
		return apperrors.Wrap(apperrors.KindInconsistent, "web.error.room_not_found", err)
	}
	return err
}
