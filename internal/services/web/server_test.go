package web

import (
	"bytes"
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/language"

	"github.com/louisbranch/ontsnapping/internal/game/room"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/sessioncookie"
	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
	"github.com/louisbranch/ontsnapping/internal/services/web/storage/memory"
)

const testOrigin = "http://example.com"

// browser replays cookies between requests against a handler.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
	headers http.Header
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	t.Helper()
	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}, headers: http.Header{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	for key, values := range b.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return rr
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (b *browser) post(input string) *httptest.ResponseRecorder {
	b.t.Helper()
	form := url.Values{"player_input": {input}}
	req := httptest.NewRequest(http.MethodPost, "/play", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", testOrigin)
	return b.do(req)
}

// start begins a new game and returns the session id.
func (b *browser) start() string {
	b.t.Helper()
	rr := b.get("/")
	expectRedirect(b.t, rr, "/play")
	cookie, ok := b.cookies[sessioncookie.Name]
	if !ok {
		b.t.Fatalf("expected session cookie after start")
	}
	return cookie.Value
}

// currentRoom renders /play and returns the room id shown on the page.
func (b *browser) currentRoom() (room.ID, *html.Node) {
	b.t.Helper()
	rr := b.get("/play")
	if rr.Code != http.StatusOK {
		b.t.Fatalf("GET /play status = %d, want %d", rr.Code, http.StatusOK)
	}
	doc := parseHTML(b.t, rr.Body.String())
	article := findNode(doc, func(n *html.Node) bool { return n.Data == "article" })
	if article == nil {
		b.t.Fatalf("expected room article in %q", rr.Body.String())
	}
	return room.ID(attrOf(article, "data-room")), doc
}

type testEnv struct {
	handler http.Handler
	store   *memory.Store
	logs    *bytes.Buffer
}

func newTestEnv(t *testing.T, mutate func(*Config)) testEnv {
	t.Helper()

	store := memory.New()
	logs := &bytes.Buffer{}
	cfg := Config{
		Store:      store,
		SessionTTL: time.Hour,
		Logger:     log.New(logs, "", 0),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return testEnv{handler: handler, store: store, logs: logs}
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func findNode(node *html.Node, match func(*html.Node) bool) *html.Node {
	if node.Type == html.ElementNode && match(node) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func attrOf(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(node *html.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.TrimSpace(b.String())
}

func heading(doc *html.Node) string {
	return nodeText(findNode(doc, func(n *html.Node) bool { return n.Data == "h1" }))
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d (body %q)", rr.Code, http.StatusFound, rr.Body.String())
	}
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestNewHandlerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Config{}); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestIndexStartsGameInCell(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	sessionID := b.start()

	session, ok, err := env.store.GetSession(context.Background(), sessionID)
	if err != nil || !ok {
		t.Fatalf("get session = (%v, %v)", ok, err)
	}
	if session.RoomID != string(room.Cell) {
		t.Fatalf("room = %q, want %q", session.RoomID, room.Cell)
	}
	if session.ExpiresAt.IsZero() {
		t.Fatal("expected session expiry with a ttl")
	}

	current, doc := b.currentRoom()
	if current != room.Cell {
		t.Fatalf("room = %q, want %q", current, room.Cell)
	}
	if got := heading(doc); got != "Cel" {
		t.Fatalf("heading = %q, want %q", got, "Cel")
	}
	input := findNode(doc, func(n *html.Node) bool { return n.Data == "input" })
	if input == nil || attrOf(input, "name") != "player_input" {
		t.Fatal("expected player_input field")
	}
}

func TestIndexReplacesPreviousSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	first := b.start()
	b.post("accept")
	second := b.start()

	if first == second {
		t.Fatal("expected a new session id")
	}
	if _, ok, _ := env.store.GetSession(context.Background(), first); ok {
		t.Fatal("expected previous session to be deleted")
	}
	if current, _ := b.currentRoom(); current != room.Cell {
		t.Fatalf("room = %q, want %q", current, room.Cell)
	}
}

func TestPlayWithoutSessionRedirectsToIndex(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	expectRedirect(t, b.get("/play"), "/")
	expectRedirect(t, b.post("accept"), "/")

	b.cookies[sessioncookie.Name] = &http.Cookie{Name: sessioncookie.Name, Value: "unknown"}
	expectRedirect(t, b.get("/play"), "/")
	if _, ok := b.cookies[sessioncookie.Name]; ok {
		t.Fatal("expected stale session cookie to be cleared")
	}
}

func TestPlayScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inputs []string
		want   room.ID
	}{
		{name: "accept reaches tunnel", inputs: []string{"accept"}, want: room.Tunnel},
		{name: "refuse is caught", inputs: []string{"refuse"}, want: room.Caught},
		{name: "right then code escapes", inputs: []string{"accept", "right", "132"}, want: room.Escaped},
		{name: "left is caught", inputs: []string{"accept", "left"}, want: room.Caught},
		{name: "wrong code is caught", inputs: []string{"accept", "right", "999"}, want: room.Caught},
		{name: "unknown input stays", inputs: []string{"banana"}, want: room.Cell},
		{name: "matching is case sensitive", inputs: []string{"Accept"}, want: room.Cell},
		{name: "input is not trimmed", inputs: []string{" accept "}, want: room.Cell},
		{name: "dutch tokens", inputs: []string{"aannemen", "rechts", "132"}, want: room.Escaped},
		{name: "empty input in sewer hits wildcard", inputs: []string{"accept", "right", ""}, want: room.Caught},
		{name: "terminal room self loops", inputs: []string{"refuse", "accept", "132"}, want: room.Caught},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, nil)
			b := newBrowser(t, env.handler)
			b.start()
			for _, input := range tc.inputs {
				expectRedirect(t, b.post(input), "/play")
			}
			if current, _ := b.currentRoom(); current != tc.want {
				t.Fatalf("room = %q, want %q", current, tc.want)
			}
		})
	}
}

func TestPlayAcceptsMultipartForm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	b.start()
	expectRedirect(t, b.post("accept"), "/play")
	expectRedirect(t, b.post("right"), "/play")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("player_input", "132"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/play", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Origin", testOrigin)
	expectRedirect(t, b.do(req), "/play")

	if current, _ := b.currentRoom(); current != room.Escaped {
		t.Fatalf("room = %q, want %q", current, room.Escaped)
	}
}

func TestTerminalRoomOffersRestart(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	b.start()
	for _, input := range []string{"accept", "right", "132"} {
		b.post(input)
	}
	current, doc := b.currentRoom()
	if current != room.Escaped {
		t.Fatalf("room = %q, want %q", current, room.Escaped)
	}
	if got := heading(doc); got != "Ontsnapt" {
		t.Fatalf("heading = %q, want %q", got, "Ontsnapt")
	}
	if findNode(doc, func(n *html.Node) bool { return n.Data == "form" }) != nil {
		t.Fatal("expected no form in a terminal room")
	}
	restart := findNode(doc, func(n *html.Node) bool { return n.Data == "a" && attrOf(n, "class") == "button" })
	if restart == nil || attrOf(restart, "href") != "/" {
		t.Fatal("expected restart link to /")
	}
}

func TestPostRequiresSameOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		origin string
	}{
		{name: "cross origin", origin: "http://evil.example.test"},
		{name: "opaque origin", origin: "null"},
		{name: "no origin or referer"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, nil)
			b := newBrowser(t, env.handler)
			sessionID := b.start()

			form := url.Values{"player_input": {"accept"}}
			req := httptest.NewRequest(http.MethodPost, "/play", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := b.do(req)
			if rr.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
			}

			session, _, _ := env.store.GetSession(context.Background(), sessionID)
			if session.RoomID != string(room.Cell) {
				t.Fatalf("room = %q, want unchanged %q", session.RoomID, room.Cell)
			}
		})
	}
}

func TestPlayRejectsOtherMethods(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rr := httptest.NewRecorder()
		env.handler.ServeHTTP(rr, httptest.NewRequest(method, "/play", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s status = %d, want %d", method, rr.Code, http.StatusMethodNotAllowed)
		}
		if got := rr.Header().Get("Allow"); got != "GET, HEAD, POST" {
			t.Fatalf("Allow = %q, want %q", got, "GET, HEAD, POST")
		}
	}
}

func TestPlayAnswersHead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	b.start()
	rr := b.do(httptest.NewRequest(http.MethodHead, "/play", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("HEAD /play status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestUnknownStoredRoomIsServerError(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	if err := env.store.CreateSession(context.Background(), webstorage.Session{ID: "corrupt", RoomID: "attic"}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	b := newBrowser(t, env.handler)
	b.cookies[sessioncookie.Name] = &http.Cookie{Name: sessioncookie.Name, Value: "corrupt"}

	for _, rr := range []*httptest.ResponseRecorder{b.get("/play"), b.post("accept")} {
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
		}
		doc := parseHTML(t, rr.Body.String())
		detail := findNode(doc, func(n *html.Node) bool { return attrOf(n, "class") == "detail" })
		if got := nodeText(detail); got != "Je opgeslagen ruimte bestaat niet meer." {
			t.Fatalf("detail = %q", got)
		}
	}
	if !strings.Contains(env.logs.String(), "kind=inconsistent") {
		t.Fatalf("expected inconsistent state to be logged: %q", env.logs.String())
	}
}

func TestExpiredSessionRestarts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	past := time.Now().Add(-2 * time.Hour)
	if err := env.store.CreateSession(context.Background(), webstorage.Session{ID: "old", RoomID: "sewer", ExpiresAt: past}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	b := newBrowser(t, env.handler)
	b.cookies[sessioncookie.Name] = &http.Cookie{Name: sessioncookie.Name, Value: "old"}
	expectRedirect(t, b.get("/play"), "/")
}

func TestLanguageSelection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	b.start()

	_, doc := b.currentRoom()
	if got := heading(doc); got != "Cel" {
		t.Fatalf("default heading = %q, want %q", got, "Cel")
	}

	rr := b.get("/play?lang=en-US")
	doc = parseHTML(t, rr.Body.String())
	if got := heading(doc); got != "Cell" {
		t.Fatalf("english heading = %q, want %q", got, "Cell")
	}
	if htmlNode := findNode(doc, func(n *html.Node) bool { return n.Data == "html" }); attrOf(htmlNode, "lang") != "en-US" {
		t.Fatalf("lang = %q, want en-US", attrOf(htmlNode, "lang"))
	}

	_, doc = b.currentRoom()
	if got := heading(doc); got != "Cell" {
		t.Fatalf("heading after cookie = %q, want %q", got, "Cell")
	}
}

func TestAcceptLanguageAndConfiguredDefault(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, func(cfg *Config) { cfg.DefaultLanguage = language.MustParse("en-US") })
	b := newBrowser(t, env.handler)
	b.start()
	if _, doc := b.currentRoom(); heading(doc) != "Cell" {
		t.Fatalf("heading = %q, want configured default english", heading(doc))
	}

	b.headers.Set("Accept-Language", "nl-BE,nl;q=0.9")
	if _, doc := b.currentRoom(); heading(doc) != "Cel" {
		t.Fatalf("heading = %q, want dutch from Accept-Language", heading(doc))
	}
}

func TestHTMXPostUsesHXRedirect(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	b := newBrowser(t, env.handler)
	b.start()
	b.headers.Set("HX-Request", "true")
	rr := b.post("accept")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("HX-Redirect"); got != "/play" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/play")
	}
}

func TestHealthStaticAndNotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)

	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("/up = %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("stylesheet status = %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/css") {
		t.Fatalf("stylesheet content-type = %q", got)
	}

	rr = httptest.NewRecorder()
	env.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := heading(parseHTML(t, rr.Body.String())); got != "Deze pagina bestaat niet" {
		t.Fatalf("heading = %q", got)
	}
}

func TestRequestsAreLogged(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
	for _, marker := range []string{"method=GET", "path=/up", "status=200"} {
		if !strings.Contains(env.logs.String(), marker) {
			t.Fatalf("log missing %q: %q", marker, env.logs.String())
		}
	}
}

func TestServerServesUntilCancelled(t *testing.T) {
	t.Parallel()

	store := memory.New()
	server, err := NewServer(context.Background(), Config{
		HTTPAddr:      "127.0.0.1:0",
		HealthAddr:    "127.0.0.1:0",
		Store:         store,
		SweepInterval: time.Millisecond,
		Logger:        log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer server.Close()
	if server.HealthAddr() == "" {
		t.Fatal("expected bound health address")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestNewServerValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{Store: memory.New()}); err == nil {
		t.Fatal("expected error for empty http address")
	}
	if _, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected error without store")
	}
	var nilServer *Server
	if err := nilServer.ListenAndServe(context.Background()); err == nil {
		t.Fatal("expected error for nil server")
	}
	nilServer.Close()
}
