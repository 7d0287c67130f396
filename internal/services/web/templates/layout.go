package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	Active bool
}

// LayoutParams configures the page shell.
type LayoutParams struct {
	Title     string
	Lang      string
	AppName   string
	Path      string
	Languages []LanguageOption
	// BodyClass is added to <main> so rooms can be styled by id.
	BodyClass string
}

// Layout renders the document shell around the children in ctx.
func Layout(params LayoutParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := strings.TrimSpace(params.Title)
		if params.AppName != "" && title != params.AppName {
			title = joinNonEmpty(" · ", title, params.AppName)
		}
		p := printer{w: w}
		p.raw(`<!DOCTYPE html><html lang="`)
		p.text(params.Lang)
		p.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		p.text(title)
		p.raw(`</title><link rel="stylesheet" href="`)
		p.text(routepath.Stylesheet)
		p.raw(`"></head><body><header><span class="app-name">`)
		p.text(params.AppName)
		p.raw(`</span>`)
		if len(params.Languages) > 0 {
			p.raw(`<nav aria-label="language">`)
			for _, option := range params.Languages {
				p.raw(`<a href="`)
				p.text(routepath.WithLang(params.Path, option.Tag))
				p.raw(`" hreflang="`)
				p.text(option.Tag)
				p.raw(`"`)
				if option.Active {
					p.raw(` aria-current="true"`)
				}
				p.raw(`>`)
				p.text(option.Label)
				p.raw(`</a>`)
			}
			p.raw(`</nav>`)
		}
		p.raw(`</header><main`)
		if params.BodyClass != "" {
			p.raw(` class="`)
			p.text(params.BodyClass)
			p.raw(`"`)
		}
		p.raw(`>`)
		if p.err != nil {
			return p.err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		p.raw(`</main></body></html>`)
		return p.err
	})
}

// printer accumulates the first write error so components can emit markup
// without checking every call.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(value string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, value)
}

func (p *printer) text(value string) {
	p.raw(templ.EscapeString(value))
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, sep)
}
