package gridkit

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/row"
)

// Action URL keys understood by grid front ends. The URL templates contain
// the ((EntitySetId)) placeholder.
const (
	ActionCommunicate    = "communicate"
	ActionMergePerson    = "mergePerson"
	ActionMergeBusiness  = "mergeBusiness"
	ActionBulkUpdate     = "bulkUpdate"
	ActionLaunchWorkflow = "launchWorkflow"
	ActionMergeTemplate  = "mergeTemplate"
)

// DefaultActionURLs are the action URLs added by UseActionURLs.
var DefaultActionURLs = map[string]string{
	ActionCommunicate:    "/Communication/((EntitySetId))",
	ActionMergePerson:    "/PersonMerge/((EntitySetId))",
	ActionMergeBusiness:  "/BusinessMerge/((EntitySetId))",
	ActionBulkUpdate:     "/BulkUpdate/((EntitySetId))",
	ActionLaunchWorkflow: "/LaunchWorkflows/((EntitySetId))",
	ActionMergeTemplate:  "/MergeTemplate/((EntitySetId))",
}

// AttributeHolder is implemented by entities that carry attribute values.
type AttributeHolder interface {
	// AttributeValue returns the display value of the attribute key.
	AttributeValue(key string) (string, bool)
}

// Person is the cell value of a person field.
type Person struct {
	FirstName string
	NickName  string
	LastName  string
	PhotoURL  string
}

// Field describes one row field produced by a Builder.
type Field struct {
	Name string
	Kind column.Kind
}

// AttributeField describes one attribute field produced by a Builder.
type AttributeField struct {
	Name      string
	Key       string
	Title     string
	FieldType string
}

// Definition describes the rows a Builder produces.
type Definition struct {
	Fields          []Field
	AttributeFields []AttributeField
	ActionURLs      map[string]string
}

// ColumnSpecs returns one column spec per plain field plus one attribute
// expansion spec when the definition has attribute fields.
func (d Definition) ColumnSpecs() []column.Spec {
	specs := make([]column.Spec, 0, len(d.Fields)+1)
	for _, f := range d.Fields {
		specs = append(specs, column.Spec{Name: f.Name, Field: f.Name, Kind: f.Kind})
	}
	if len(d.AttributeFields) > 0 {
		attrs := make([]column.AttributeDescriptor, len(d.AttributeFields))
		for i, af := range d.AttributeFields {
			attrs[i] = column.AttributeDescriptor{Key: af.Key, Name: af.Title, FieldType: af.FieldType}
		}
		specs = append(specs, column.Spec{Attributes: attrs})
	}
	return specs
}

type builderField[T any] struct {
	name      string
	kind      column.Kind
	attribute bool
	value     func(T) any
}

// Builder converts typed entities into grid rows.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
// This ensures thread-safety and prevents accidental state sharing.
//
// Example:
//
//	rows, err := gridkit.NewBuilder[Order]().
//	    AddTextField("name", func(o Order) string { return o.Name }).
//	    AddNumberField("amount", func(o Order) float64 { return o.Amount }).
//	    Build(orders)
type Builder[T any] struct {
	fields  []builderField[T]
	actions []func(*Definition)
	err     error
}

// NewBuilder creates an empty builder for entities of type T.
func NewBuilder[T any]() Builder[T] {
	return Builder[T]{}
}

func (b Builder[T]) with(f builderField[T]) Builder[T] {
	b.fields = append(slices.Clip(b.fields), f)
	return b
}

// AddField adds a field whose value is computed by fn. The result goes
// through row.FromAny.
func (b Builder[T]) AddField(name string, fn func(T) any) Builder[T] {
	return b.with(builderField[T]{name: name, kind: column.KindText, value: fn})
}

// AddTextField adds a plain text field.
func (b Builder[T]) AddTextField(name string, fn func(T) string) Builder[T] {
	return b.with(builderField[T]{name: name, kind: column.KindText, value: func(item T) any {
		return fn(item)
	}})
}

// AddNumberField adds a numeric field.
func (b Builder[T]) AddNumberField(name string, fn func(T) float64) Builder[T] {
	return b.with(builderField[T]{name: name, kind: column.KindNumber, value: func(item T) any {
		return fn(item)
	}})
}

// AddDateTimeField adds a date and time field. Values are RFC 3339 strings;
// a nil time is null.
func (b Builder[T]) AddDateTimeField(name string, fn func(T) *time.Time) Builder[T] {
	return b.with(builderField[T]{name: name, kind: column.KindDate, value: func(item T) any {
		t := fn(item)
		if t == nil {
			return nil
		}
		return t.Format(time.RFC3339)
	}})
}

// AddPersonField adds a person field. Values are objects with firstName,
// nickName, lastName and photoUrl; a nil person is null.
func (b Builder[T]) AddPersonField(name string, fn func(T) *Person) Builder[T] {
	return b.with(builderField[T]{name: name, kind: column.KindText, value: func(item T) any {
		p := fn(item)
		if p == nil {
			return nil
		}
		return map[string]any{
			"firstName": p.FirstName,
			"nickName":  p.NickName,
			"lastName":  p.LastName,
			"photoUrl":  p.PhotoURL,
		}
	}})
}

// AddAttributeFields adds one attr_<key> field per attribute. T must
// implement AttributeHolder; otherwise Build and BuildDefinition fail with
// ErrAttributesUnsupported.
func (b Builder[T]) AddAttributeFields(attrs []column.AttributeDescriptor) Builder[T] {
	var zero T
	if _, ok := any(zero).(AttributeHolder); !ok {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %T", ErrAttributesUnsupported, zero)
		}
		return b
	}

	for _, attr := range attrs {
		key := attr.Key
		fieldKey := attr.FieldName()
		b = b.with(builderField[T]{name: fieldKey, kind: column.KindText, attribute: true, value: func(item T) any {
			v, ok := any(item).(AttributeHolder).AttributeValue(key)
			if !ok {
				return nil
			}
			return v
		}})

		fieldType := attr.FieldType
		if fieldType == "" {
			fieldType = column.FormatText
		}
		af := AttributeField{Name: fieldKey, Key: key, Title: attr.Name, FieldType: fieldType}
		b = b.AddDefinitionAction(func(d *Definition) {
			d.AttributeFields = append(d.AttributeFields, af)
		})
	}
	return b
}

// AddDefinitionAction registers fn to run on the Definition after the fields
// are collected. Actions run in the order they were added.
func (b Builder[T]) AddDefinitionAction(fn func(*Definition)) Builder[T] {
	b.actions = append(slices.Clip(b.actions), fn)
	return b
}

// UseActionURLs adds the default action URLs. Entries in overrides replace
// the defaults. URLs already set by earlier actions are kept.
func (b Builder[T]) UseActionURLs(overrides map[string]string) Builder[T] {
	urls := maps.Clone(DefaultActionURLs)
	maps.Copy(urls, overrides)
	return b.AddDefinitionAction(func(d *Definition) {
		for k, v := range urls {
			if _, ok := d.ActionURLs[k]; !ok {
				d.ActionURLs[k] = v
			}
		}
	})
}

func (b Builder[T]) validate() error {
	if b.err != nil {
		return b.err
	}
	seen := make(map[string]struct{}, len(b.fields))
	for _, f := range b.fields {
		if f.name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidField)
		}
		if _, dup := seen[f.name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidField, f.name)
		}
		seen[f.name] = struct{}{}
	}
	return nil
}

// Build converts items into rows.
func (b Builder[T]) Build(items []T) ([]row.Row, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	rows := make([]row.Row, len(items))
	for i, item := range items {
		r := make(row.Row, len(b.fields))
		for _, f := range b.fields {
			v, err := row.FromAny(f.value(item))
			if err != nil {
				return nil, fmt.Errorf("item %d: field %q: %w", i, f.name, err)
			}
			r[f.name] = v
		}
		rows[i] = r
	}
	return rows, nil
}

// BuildDefinition describes the fields and runs the definition actions.
func (b Builder[T]) BuildDefinition() (Definition, error) {
	if err := b.validate(); err != nil {
		return Definition{}, err
	}

	d := Definition{ActionURLs: make(map[string]string)}
	for _, f := range b.fields {
		if f.attribute {
			continue
		}
		d.Fields = append(d.Fields, Field{Name: f.name, Kind: f.kind})
	}
	for _, fn := range b.actions {
		fn(&d)
	}
	return d, nil
}
