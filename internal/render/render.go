// Package render turns stages and their components into HTML fragments.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var templates = template.Must( //nolint:gochecknoglobals
	template.New("").Funcs(template.FuncMap{
		// Author supplied HTML content is trusted.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
	}).ParseFS(templateFS, "templates/*.gohtml"),
)

// Template renders the named template with data.
func Template(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// Join renders components one after another.
func Join(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range components {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Wrap applies wrappers to content, innermost first.
func Wrap(content templ.Component, wrappers ...func(templ.Component) templ.Component) templ.Component {
	wrapped := content
	for _, wrap := range wrappers {
		wrapped = wrap(wrapped)
	}
	return wrapped
}

// HTML renders c into a string that can be embedded in another template.
func HTML(ctx context.Context, c templ.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec
}

// String renders c to a string.
func String(ctx context.Context, c templ.Component) (string, error) {
	h, err := HTML(ctx, c)
	return string(h), err
}

// nested renders inner and passes the result to outer as its content.
func nested(inner templ.Component, outer func(template.HTML) templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		content, err := HTML(ctx, inner)
		if err != nil {
			return err
		}
		return outer(content).Render(ctx, w)
	})
}

func renderAll(ctx context.Context, components []templ.Component) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(components))
	for _, c := range components {
		h, err := HTML(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
