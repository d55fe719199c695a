package column

import (
	"errors"
	"strings"
	"testing"
	"text/template"

	"github.com/hupe1980/gridkit/row"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOne(t *testing.T, spec Spec, opts ...Option) *Definition {
	t.Helper()
	defs, err := Build([]Spec{spec}, opts...)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	return defs[0]
}

func TestBuild_DefaultAccessors(t *testing.T) {
	d := buildOne(t, Spec{Name: "age", Field: "age"})
	r := row.Row{"age": row.Int(42)}

	q, ok := d.QuickFilterValue(r)
	require.True(t, ok)
	assert.Equal(t, "42", q)

	assert.Equal(t, row.String("42"), d.SortValue(r), "text columns sort by the stringified value")
	assert.Equal(t, row.Int(42), d.FilterValue(r), "filter value is raw")
	assert.Equal(t, row.Int(42), d.UniqueValue(r))
	assert.Equal(t, KindText, d.Kind)
	assert.Equal(t, "text", d.Format)
}

func TestBuild_QuickFilterIgnoresNonPrimitives(t *testing.T) {
	d := buildOne(t, Spec{Name: "flag", Field: "flag"})

	_, ok := d.QuickFilterValue(row.Row{"flag": row.Bool(true)})
	assert.False(t, ok)
	_, ok = d.QuickFilterValue(row.Row{})
	assert.False(t, ok)
}

func TestBuild_UniqueValueSerializesStructures(t *testing.T) {
	d := buildOne(t, Spec{Name: "name", Field: "name"})
	r := row.Row{"name": row.Object(map[string]row.Value{"lastName": row.String("Decker"), "firstName": row.String("Ted")})}

	assert.Equal(t, row.String(`{"firstName":"Ted","lastName":"Decker"}`), d.UniqueValue(r))
	assert.False(t, d.UniqueValue(row.Row{}).IsDefined())
}

func TestBuild_SortFieldAndNoSort(t *testing.T) {
	d := buildOne(t, Spec{Name: "name", Field: "name", SortField: "lastName"})
	assert.Equal(t, row.String("Decker"), d.SortValue(row.Row{"name": row.String("Ted Decker"), "lastName": row.String("Decker")}))

	none := buildOne(t, Spec{Name: "actions"})
	assert.False(t, none.HasSortValue())
	assert.False(t, none.SortValue(row.Row{"x": row.Int(1)}).IsDefined())
}

func TestBuild_NumberKindSortsNumerically(t *testing.T) {
	d := buildOne(t, Spec{Name: "total", Field: "total", Kind: KindNumber})

	assert.Equal(t, row.Number(9.5), d.SortValue(row.Row{"total": row.Number(9.5)}))
	assert.False(t, d.SortValue(row.Row{"total": row.String("n/a")}).IsDefined())
}

func TestBuild_DateQuickFilter(t *testing.T) {
	d := buildOne(t, Spec{Name: "entered", Field: "entered", Kind: KindDate})

	q, ok := d.QuickFilterValue(row.Row{"entered": row.String("2023-07-04T10:00:00Z")})
	require.True(t, ok)
	assert.Equal(t, "7/4/2023", q)

	_, ok = d.QuickFilterValue(row.Row{"entered": row.String("not a date")})
	assert.False(t, ok)
}

func TestBuild_BadgeQuickFilter(t *testing.T) {
	d := buildOne(t, Spec{Name: "mode", Field: "mode", Kind: KindBadge})

	q, ok := d.QuickFilterValue(row.Row{"mode": row.Object(map[string]row.Value{"text": row.String("Open"), "value": row.String("#900000")})})
	require.True(t, ok)
	assert.Equal(t, "Open", q)
}

func TestBuild_ComputedAccessor(t *testing.T) {
	d := buildOne(t, Spec{
		Name:  "fullName",
		Field: "firstName",
		SortValue: Computed(func(r row.Row, c *Definition) row.Value {
			return row.String(r.Get("lastName").Text() + ", " + r.Get(c.Field).Text())
		}),
	})

	assert.Equal(t, row.String("Decker, Ted"), d.SortValue(row.Row{"firstName": row.String("Ted"), "lastName": row.String("Decker")}))
}

func TestBuild_TemplateAccessor(t *testing.T) {
	d := buildOne(t, Spec{
		Name:             "name",
		QuickFilterValue: Template("{{ .Row.firstName }} {{ .Row.lastName }}"),
		SortValue:        Template("{{ .Row.lastName | lower }}"),
		FilterValue:      Template(`{{ default "unknown" .Row.campus }}`),
	})
	r := row.Row{"firstName": row.String("Ted"), "lastName": row.String("Decker")}

	q, ok := d.QuickFilterValue(r)
	require.True(t, ok)
	assert.Equal(t, "Ted Decker", q)
	assert.Equal(t, row.String("decker"), d.SortValue(r))
	assert.Equal(t, row.String("unknown"), d.FilterValue(r), "missing fields render empty")
}

func TestBuild_TemplateFuncs(t *testing.T) {
	d := buildOne(t, Spec{Name: "code", QuickFilterValue: Template("{{ shout .Row.code }}")},
		WithTemplateFuncs(template.FuncMap{"shout": func(v any) string { return strings.ToUpper(v.(interface{ String() string }).String()) + "!" }}))

	q, _ := d.QuickFilterValue(row.Row{"code": row.String("abc")})
	assert.Equal(t, "ABC!", q)
}

func TestBuild_TemplateSyntaxError(t *testing.T) {
	_, err := Build([]Spec{{Name: "broken", SortValue: Template("{{ .Row.x ")}})
	require.Error(t, err)

	var te *TemplateError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "broken", te.Column)
	assert.Equal(t, "sortValue", te.Accessor)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestBuild_Validation(t *testing.T) {
	_, err := Build([]Spec{{Field: "x"}})
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, err = Build([]Spec{{Name: "a"}, {Name: "a"}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestBuild_FreshCachePerColumn(t *testing.T) {
	defs, err := Build([]Spec{{Name: "a"}, {Name: "b"}})
	require.NoError(t, err)

	defs[0].Cache().AddOrReplace("k", 1)
	_, ok := defs[1].Cache().Get("k")
	assert.False(t, ok)
	assert.NotSame(t, defs[0].Cache(), defs[1].Cache())
}

func TestBuild_DefaultFilters(t *testing.T) {
	numberFilter := &Filter{Name: "number"}
	textFilter := &Filter{Name: "text"}
	explicit := &Filter{Name: "pickExisting"}

	defs, err := Build([]Spec{
		{Name: "total", Field: "total", Kind: KindNumber},
		{Name: "name", Field: "name"},
		{Name: "campus", Filter: explicit},
	}, WithDefaultFilters(map[Kind]*Filter{KindNumber: numberFilter, KindText: textFilter}))
	require.NoError(t, err)

	assert.Same(t, numberFilter, defs[0].Filter)
	assert.Same(t, textFilter, defs[1].Filter)
	assert.Same(t, explicit, defs[2].Filter)
}

func TestBuild_DefaultFiltersSkipFieldlessColumns(t *testing.T) {
	textFilter := &Filter{Name: "text"}
	defaults := WithDefaultFilters(map[Kind]*Filter{KindText: textFilter})

	actions := buildOne(t, Spec{Name: "actions"}, defaults)
	assert.Nil(t, actions.Filter, "a column without field or filter accessor is not filterable")

	computed := buildOne(t, Spec{
		Name:        "full",
		FilterValue: Computed(func(r row.Row, _ *Definition) row.Value { return r["first"] }),
	}, defaults)
	assert.Same(t, textFilter, computed.Filter)
}

func TestBuild_AttributeColumns(t *testing.T) {
	defs, err := Build([]Spec{
		{Name: "name", Field: "name"},
		{Attributes: []AttributeDescriptor{
			{Key: "Campus", Name: "Campus"},
			{Key: "Allergy", FieldType: "memo"},
		}},
	})
	require.NoError(t, err)
	require.Len(t, defs, 3)

	campus := defs[1]
	assert.Equal(t, "attr_Campus", campus.Name)
	assert.Equal(t, "attr_Campus", campus.Field)
	assert.Equal(t, "Campus", campus.Title)
	assert.Equal(t, FormatText, campus.Format)
	assert.Equal(t, "Allergy", defs[2].Title)
	assert.Equal(t, defs[1].Format, defs[2].Format)

	ft, ok := defs[2].Prop("fieldType")
	require.True(t, ok)
	assert.Equal(t, "memo", ft)

	r := row.Row{"attr_Campus": row.String("Main"), "attr_Allergy": row.Int(3)}
	q, ok := campus.QuickFilterValue(r)
	require.True(t, ok)
	assert.Equal(t, "Main", q)
	assert.Equal(t, row.String("Main"), campus.SortValue(r))
	assert.Equal(t, row.String("Main"), campus.FilterValue(r))
	assert.Equal(t, row.String("Main"), campus.UniqueValue(r))

	assert.False(t, defs[2].UniqueValue(r).IsDefined(), "attribute values are opaque strings")
}

func TestBuild_AttributeColumnsUnsupported(t *testing.T) {
	_, err := Build([]Spec{{Attributes: []AttributeDescriptor{{Key: "Campus"}}}}, WithAttributeSupport(false))
	assert.ErrorIs(t, err, ErrAttributesUnsupported)
}
