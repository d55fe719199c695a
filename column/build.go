package column

import (
	"fmt"
	"text/template"

	"github.com/hupe1980/gridkit/cache"
)

type options struct {
	funcs             template.FuncMap
	attributesAllowed bool
	defaultFilters    map[Kind]*Filter
	attributeFormat   string
}

// Option configures Build.
type Option func(*options)

// WithTemplateFuncs adds functions available to template accessors.
func WithTemplateFuncs(funcs template.FuncMap) Option {
	return func(o *options) {
		o.funcs = funcs
	}
}

// WithAttributeSupport declares whether the rows carry attribute values.
// Attribute specs fail with ErrAttributesUnsupported when disabled.
// Default: true.
func WithAttributeSupport(supported bool) Option {
	return func(o *options) {
		o.attributesAllowed = supported
	}
}

// WithDefaultFilters assigns a filter to every column of the given kind that
// does not declare one. Columns without a field or filter accessor are left
// unfiltered.
func WithDefaultFilters(filters map[Kind]*Filter) Option {
	return func(o *options) {
		o.defaultFilters = filters
	}
}

// WithAttributeFormat sets the shared cell format of attribute columns.
// Default: FormatText.
func WithAttributeFormat(format string) Option {
	return func(o *options) {
		o.attributeFormat = format
	}
}

// Build translates specs into column definitions, applying default
// accessors. Template accessors are compiled here, so template syntax errors
// surface at setup time.
func Build(specs []Spec, optFns ...Option) ([]*Definition, error) {
	opts := options{
		attributesAllowed: true,
		attributeFormat:   FormatText,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	defs := make([]*Definition, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))

	add := func(d *Definition) error {
		if _, ok := seen[d.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, d.Name)
		}
		seen[d.Name] = struct{}{}
		defs = append(defs, d)
		return nil
	}

	for i := range specs {
		spec := &specs[i]

		if spec.Attributes != nil {
			if !opts.attributesAllowed {
				return nil, ErrAttributesUnsupported
			}
			for _, attr := range spec.Attributes {
				if err := add(newAttributeColumn(attr, spec, &opts)); err != nil {
					return nil, err
				}
			}
			continue
		}

		d, err := newColumn(spec, &opts)
		if err != nil {
			return nil, err
		}
		if err := add(d); err != nil {
			return nil, err
		}
	}

	return defs, nil
}

func newColumn(spec *Spec, opts *options) (*Definition, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: column name is required", ErrInvalidColumn)
	}

	kind := spec.Kind
	if kind == "" {
		kind = KindText
	}
	format := spec.Format
	if format == "" {
		format = string(kind)
	}
	d := &Definition{
		Name:   spec.Name,
		Title:  spec.Title,
		Field:  spec.Field,
		Kind:   kind,
		Format: format,
		Hidden: spec.Hidden,
		Filter: spec.Filter,
		Props:  spec.Props,
		cache:  cache.New(),
	}

	var err error
	if d.quickFilterValue, err = spec.QuickFilterValue.compile(spec.Name, "quickFilterValue", opts.funcs); err != nil {
		return nil, err
	}
	if d.sortValue, err = spec.SortValue.compile(spec.Name, "sortValue", opts.funcs); err != nil {
		return nil, err
	}
	if d.filterValue, err = spec.FilterValue.compile(spec.Name, "filterValue", opts.funcs); err != nil {
		return nil, err
	}
	if d.uniqueValue, err = spec.UniqueValue.compile(spec.Name, "uniqueValue", opts.funcs); err != nil {
		return nil, err
	}

	if d.sortValue == nil {
		sortField := spec.SortField
		if sortField == "" {
			sortField = spec.Field
		}
		if sortField != "" {
			if kind == KindNumber {
				d.sortValue = numberSortValue(sortField)
			} else {
				d.sortValue = stringSortValue(sortField)
			}
		}
	}

	if d.quickFilterValue == nil {
		switch kind {
		case KindDate:
			d.quickFilterValue = dateQuickFilterValue
		case KindBadge:
			d.quickFilterValue = badgeQuickFilterValue
		default:
			d.quickFilterValue = defaultQuickFilterValue
		}
	}

	// A column with neither a field nor a filter accessor has nothing to
	// filter on, so it only gets a filter when one is declared explicitly.
	if d.Filter == nil && opts.defaultFilters != nil && (spec.Field != "" || d.filterValue != nil) {
		d.Filter = opts.defaultFilters[kind]
	}

	if d.filterValue == nil {
		d.filterValue = fieldValue
	}

	if d.uniqueValue == nil {
		d.uniqueValue = defaultUniqueValue
	}

	return d, nil
}

func newAttributeColumn(attr AttributeDescriptor, spec *Spec, opts *options) *Definition {
	name := attr.FieldName()
	title := attr.Name
	if title == "" {
		title = attr.Key
	}

	props := map[string]any{"attributeKey": attr.Key}
	if attr.FieldType != "" {
		props["fieldType"] = attr.FieldType
	}

	filter := spec.Filter
	if filter == nil && opts.defaultFilters != nil {
		filter = opts.defaultFilters[KindText]
	}

	return &Definition{
		Name:             name,
		Title:            title,
		Field:            name,
		Kind:             KindText,
		Format:           opts.attributeFormat,
		Hidden:           spec.Hidden,
		Filter:           filter,
		Props:            props,
		quickFilterValue: attributeString,
		sortValue:        attributeString,
		filterValue:      attributeString,
		uniqueValue:      attributeString,
		cache:            cache.New(),
	}
}
