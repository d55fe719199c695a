package column

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/hupe1980/gridkit/row"
)

// Accessor declares how a column reads one of its values: either as a Go
// function or as a template evaluated against the row.
type Accessor struct {
	source string
	fn     ValueFunc
}

// Computed returns an accessor backed by fn.
func Computed(fn ValueFunc) Accessor { return Accessor{fn: fn} }

// Template returns an accessor that renders source with {{ .Row }} bound to
// the row fields.
func Template(source string) Accessor { return Accessor{source: source} }

// IsZero reports whether the accessor was left unset.
func (a Accessor) IsZero() bool { return a.fn == nil && a.source == "" }

// IsTemplate reports whether the accessor is a template.
func (a Accessor) IsTemplate() bool { return a.fn == nil && a.source != "" }

// Source returns the template source of a template accessor.
func (a Accessor) Source() string { return a.source }

// templateField renders a row value the way a merge field would: empty for
// undefined and null.
type templateField row.Value

func (f templateField) String() string { return row.Value(f).Text() }

type templateContext struct {
	Row map[string]templateField
}

func templateText(v any) string {
	switch x := v.(type) {
	case templateField:
		return x.String()
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

var defaultTemplateFuncs = template.FuncMap{
	"lower": func(v any) string { return strings.ToLower(templateText(v)) },
	"upper": func(v any) string { return strings.ToUpper(templateText(v)) },
	"trim":  func(v any) string { return strings.TrimSpace(templateText(v)) },
	"default": func(def string, v any) string {
		if s := templateText(v); s != "" {
			return s
		}
		return def
	},
}

// compile resolves the accessor into a ValueFunc. Unset accessors yield nil.
func (a Accessor) compile(column, name string, funcs template.FuncMap) (ValueFunc, error) {
	if a.fn != nil {
		return a.fn, nil
	}
	if a.source == "" {
		return nil, nil
	}

	tmpl := template.New(column + "." + name).Option("missingkey=zero").Funcs(defaultTemplateFuncs)
	if funcs != nil {
		tmpl = tmpl.Funcs(funcs)
	}
	tmpl, err := tmpl.Parse(a.source)
	if err != nil {
		return nil, &TemplateError{Column: column, Accessor: name, cause: err}
	}

	return func(r row.Row, _ *Definition) row.Value {
		ctx := templateContext{Row: make(map[string]templateField, len(r))}
		for k, v := range r {
			ctx.Row[k] = templateField(v)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, ctx); err != nil {
			return row.Undefined()
		}
		return row.String(buf.String())
	}, nil
}
