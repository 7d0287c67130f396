package templates

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/net/html"
	"golang.org/x/text/message"
)

// keyLocalizer echoes catalog keys so assertions do not depend on copy.
type keyLocalizer struct{}

func (keyLocalizer) Sprintf(key message.Reference, _ ...any) string {
	value, _ := key.(string)
	return "[" + value + "]"
}

func render(t *testing.T, component templ.Component, children templ.Component) *html.Node {
	t.Helper()

	ctx := context.Background()
	if children != nil {
		ctx = templ.WithChildren(ctx, children)
	}
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func find(node *html.Node, match func(*html.Node) bool) *html.Node {
	if match(node) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := find(child, match); found != nil {
			return found
		}
	}
	return nil
}

func byTag(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func attr(node *html.Node, key string) string {
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(node *html.Node) string {
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
	return b.String()
}

func TestRoomPageRendersForm(t *testing.T) {
	t.Parallel()

	doc := render(t, RoomPage(RoomView{
		ID:          "cell",
		Title:       "Cel",
		Description: "Je zit vast <echt>.",
		Prompt:      "Kies.",
	}, keyLocalizer{}), nil)

	if got := textOf(find(doc, byTag("h1"))); got != "Cel" {
		t.Fatalf("heading = %q, want %q", got, "Cel")
	}
	if got := textOf(find(doc, byTag("p"))); got != "Je zit vast <echt>." {
		t.Fatalf("description = %q", got)
	}
	form := find(doc, byTag("form"))
	if form == nil {
		t.Fatal("expected form")
	}
	if attr(form, "method") != "post" || attr(form, "action") != "/play" {
		t.Fatalf("form method/action = %q %q", attr(form, "method"), attr(form, "action"))
	}
	input := find(form, byTag("input"))
	if input == nil || attr(input, "name") != InputField {
		t.Fatalf("expected input named %q", InputField)
	}
	if find(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "a" }) != nil {
		t.Fatal("expected no restart link for an open room")
	}
}

func TestRoomPageTerminalShowsRestart(t *testing.T) {
	t.Parallel()

	doc := render(t, RoomPage(RoomView{ID: "escaped", Title: "Ontsnapt", Description: "Vrij!", Terminal: true}, keyLocalizer{}), nil)

	if find(doc, byTag("form")) != nil {
		t.Fatal("expected no form in terminal room")
	}
	link := find(doc, byTag("a"))
	if link == nil {
		t.Fatal("expected restart link")
	}
	if attr(link, "href") != "/" {
		t.Fatalf("restart href = %q, want %q", attr(link, "href"), "/")
	}
	if got := textOf(link); got != "[web.play.again]" {
		t.Fatalf("restart text = %q", got)
	}
}

func TestLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	child := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="child">inside</p>`)
		return err
	})
	doc := render(t, Layout(LayoutParams{
		Title:     "Cel",
		Lang:      "nl-NL",
		AppName:   "Ontsnapping",
		Path:      "/play",
		BodyClass: "room-cell",
		Languages: []LanguageOption{
			{Tag: "nl-NL", Label: "Nederlands", Active: true},
			{Tag: "en-US", Label: "English"},
		},
	}), child)

	htmlNode := find(doc, byTag("html"))
	if attr(htmlNode, "lang") != "nl-NL" {
		t.Fatalf("lang = %q, want nl-NL", attr(htmlNode, "lang"))
	}
	if got := textOf(find(doc, byTag("title"))); got != "Cel · Ontsnapping" {
		t.Fatalf("title = %q", got)
	}
	main := find(doc, byTag("main"))
	if attr(main, "class") != "room-cell" {
		t.Fatalf("main class = %q", attr(main, "class"))
	}
	if find(main, func(n *html.Node) bool { return attr(n, "id") == "child" }) == nil {
		t.Fatal("expected children inside main")
	}
	nav := find(doc, byTag("nav"))
	if nav == nil {
		t.Fatal("expected language nav")
	}
	active := find(nav, func(n *html.Node) bool { return attr(n, "aria-current") == "true" })
	if active == nil || attr(active, "href") != "/play?lang=nl-NL" {
		t.Fatalf("expected active dutch link")
	}
}

func TestErrorPageUsesStatusCopy(t *testing.T) {
	t.Parallel()

	doc := render(t, ErrorPage(500, "web.error.room_not_found", keyLocalizer{}), nil)
	if got := textOf(find(doc, byTag("h1"))); got != "[web.error.title_server_error]" {
		t.Fatalf("heading = %q", got)
	}
	detail := find(doc, func(n *html.Node) bool { return attr(n, "class") == "detail" })
	if detail == nil || textOf(detail) != "[web.error.room_not_found]" {
		t.Fatal("expected detail message")
	}
	if link := find(doc, byTag("a")); link == nil || attr(link, "href") != "/" {
		t.Fatal("expected restart link")
	}

	notFound := render(t, ErrorPage(404, "", keyLocalizer{}), nil)
	if got := textOf(find(notFound, byTag("h1"))); got != "[web.error.title_not_found]" {
		t.Fatalf("heading = %q", got)
	}
	if ErrorPageTitle(404, keyLocalizer{}) != "[web.error.page_title_not_found]" {
		t.Fatal("unexpected not found page title")
	}
	if ErrorPageTitle(503, nil) != "web.error.page_title_server_error" {
		t.Fatal("expected key fallback without localizer")
	}
}
