// Package row provides the typed record model used by gridkit.
//
// A Row is a field name to Value map with no fixed schema. Values form a
// closed variant:
//
//   - Undefined: row.Undefined() (zero value, absent field)
//   - Null: row.Null()
//   - String: row.String("Ted")
//   - Number: row.Number(42.5), row.Int(42)
//   - Bool: row.Bool(true)
//   - List: row.List(row.String("a"), row.String("b"))
//   - Object: row.Object(map[string]row.Value{...})
//
// Example:
//
//	r := row.Row{
//	    "id":        row.Int(1),
//	    "firstName": row.String("Ted"),
//	    "isUrgent":  row.Bool(false),
//	}
//
// Untyped input (decoded JSON, builder callbacks) goes through FromAny and
// FromMap. Equal implements deep equality with order-insensitive object
// fields, and Value.Key gives a stable structural serialization.
package row
