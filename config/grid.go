package config

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/dataset"
	"github.com/hupe1980/gridkit/filter"
	"github.com/hupe1980/gridkit/row"
	"github.com/hupe1980/gridkit/state"
	"github.com/hupe1980/gridkit/viewstore"
)

// normalize maps filter keys back to column names. Viper lower-cases map keys.
func (g *Grid) normalize() {
	if len(g.Filters) == 0 {
		return
	}
	names := g.columnNames()
	out := make(map[string]Selection, len(g.Filters))
	for key, sel := range g.Filters {
		name := key
		for _, n := range names {
			if n == key {
				name = n
				break
			}
			if strings.EqualFold(n, key) {
				name = n
			}
		}
		out[name] = sel
	}
	g.Filters = out
}

// columnNames lists the declared column names followed by the attr_<key>
// names of attribute columns, in declaration order.
func (g *Grid) columnNames() []string {
	names := make([]string, 0, len(g.Columns))
	for _, c := range g.Columns {
		if c.Name != "" {
			names = append(names, c.Name)
		}
		for _, attr := range c.Attributes {
			names = append(names, attr.FieldName())
		}
	}
	return names
}

// ColumnSpecs translates the column declarations into column specs. Filter
// names resolve through filter.ByName.
func (g *Grid) ColumnSpecs() ([]column.Spec, error) {
	specs := make([]column.Spec, 0, len(g.Columns))
	for _, c := range g.Columns {
		spec := column.Spec{
			Name:      c.Name,
			Title:     c.Title,
			Field:     c.Field,
			SortField: c.SortField,
			Kind:      column.Kind(c.Kind),
			Format:    c.Format,
			Hidden:    c.Hidden,

			QuickFilterValue: template(c.QuickFilterValue),
			SortValue:        template(c.SortValue),
			FilterValue:      template(c.FilterValue),
			UniqueValue:      template(c.UniqueValue),

			Attributes: c.Attributes,
		}
		if c.Filter != "" {
			f, ok := filter.ByName(c.Filter)
			if !ok {
				return nil, errors.Errorf("column %q: unknown filter %q", c.Name, c.Filter)
			}
			spec.Filter = f
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func template(source string) column.Accessor {
	if source == "" {
		return column.Accessor{}
	}
	return column.Template(source)
}

// View returns the initial grid state as a view named name.
func (g *Grid) View(name string) (*viewstore.View, error) {
	dir, err := state.ParseDirection(g.Sort.Direction)
	if err != nil {
		return nil, errors.Wrap(err, "sort")
	}
	v := &viewstore.View{
		Name:        name,
		QuickFilter: g.QuickFilter,
		Sort:        viewstore.Sort{Column: g.Sort.Column, Direction: dir},
		PageSize:    g.PageSize,
	}
	if len(g.Filters) > 0 {
		v.Filters = make(map[string]viewstore.Selection, len(g.Filters))
		for col, sel := range g.Filters {
			vs, err := sel.ViewSelection()
			if err != nil {
				return nil, errors.Wrapf(err, "filter %q", col)
			}
			v.Filters[col] = vs
		}
	}
	return v, nil
}

// Selections converts the declared filters into predicate needles.
func (g *Grid) Selections() (map[string]any, error) {
	v, err := g.View("config")
	if err != nil {
		return nil, err
	}
	return v.Needles()
}

// ViewSelection converts the declaration into its serializable form.
func (s Selection) ViewSelection() (viewstore.Selection, error) {
	out := viewstore.Selection{
		Kind:   viewstore.SelectionKind(s.Kind),
		Text:   s.Text,
		Method: s.Method,
	}
	if s.Values != nil {
		out.Values = make([]row.Value, len(s.Values))
		for i, raw := range s.Values {
			v, err := row.FromAny(raw)
			if err != nil {
				return viewstore.Selection{}, errors.Wrapf(err, "values[%d]", i)
			}
			out.Values[i] = v
		}
	}
	var err error
	if out.Value, err = optionalValue(s.Value); err != nil {
		return viewstore.Selection{}, errors.Wrap(err, "value")
	}
	if out.SecondValue, err = optionalValue(s.SecondValue); err != nil {
		return viewstore.Selection{}, errors.Wrap(err, "secondValue")
	}
	if _, err := out.Needle(); err != nil {
		return viewstore.Selection{}, err
	}
	return out, nil
}

func optionalValue(raw any) (*row.Value, error) {
	if raw == nil {
		return nil, nil
	}
	v, err := row.FromAny(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DatasetOptions returns the dataset options of the source.
func (s Source) DatasetOptions() ([]dataset.Option, error) {
	var opts []dataset.Option
	f, err := dataset.ParseFormat(s.Format)
	if err != nil {
		return nil, errors.Wrap(err, "source format")
	}
	if f != dataset.FormatAuto {
		opts = append(opts, dataset.WithFormat(f))
	}
	if s.Compression != "" {
		c, err := dataset.ParseCompression(s.Compression)
		if err != nil {
			return nil, errors.Wrap(err, "source compression")
		}
		opts = append(opts, dataset.WithCompression(c))
	}
	if s.RateLimit > 0 {
		opts = append(opts, dataset.WithRateLimit(s.RateLimit))
	}
	return opts, nil
}

// Location splits the source URI into its scheme, bucket and object key.
// For file URIs bucket is empty and key is the path.
func (s Source) Location() (scheme, bucket, key string) {
	scheme = s.schemeOf()
	rest := s.URI
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if scheme == "file" {
		return scheme, "", rest
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return scheme, bucket, key
}
