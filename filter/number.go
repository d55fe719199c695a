package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/gridkit/cache"
	"github.com/hupe1980/gridkit/column"
	"github.com/hupe1980/gridkit/row"
)

// NumberFilterMethod is the comparison applied by the number filter.
type NumberFilterMethod int

const (
	// MethodEquals matches values equal to Value.
	MethodEquals NumberFilterMethod = iota
	// MethodDoesNotEqual matches values not equal to Value.
	MethodDoesNotEqual
	// MethodGreaterThan matches values greater than Value.
	MethodGreaterThan
	// MethodGreaterThanOrEqual matches values greater than or equal to Value.
	MethodGreaterThanOrEqual
	// MethodLessThan matches values less than Value.
	MethodLessThan
	// MethodLessThanOrEqual matches values less than or equal to Value.
	MethodLessThanOrEqual
	// MethodBetween matches values in the inclusive range [Value, SecondValue].
	MethodBetween
	// MethodTopN matches the Value highest values of the data set.
	MethodTopN
	// MethodAboveAverage matches values above the column average.
	MethodAboveAverage
	// MethodBelowAverage matches values below the column average.
	MethodBelowAverage
)

var methodNames = [...]string{
	MethodEquals:             "equals",
	MethodDoesNotEqual:       "doesNotEqual",
	MethodGreaterThan:        "greaterThan",
	MethodGreaterThanOrEqual: "greaterThanOrEqual",
	MethodLessThan:           "lessThan",
	MethodLessThanOrEqual:    "lessThanOrEqual",
	MethodBetween:            "between",
	MethodTopN:               "topN",
	MethodAboveAverage:       "aboveAverage",
	MethodBelowAverage:       "belowAverage",
}

// String returns the stable name of the method.
func (m NumberFilterMethod) String() string {
	if m >= 0 && int(m) < len(methodNames) {
		return methodNames[m]
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// ParseNumberFilterMethod parses a method name, ignoring case.
func ParseNumberFilterMethod(s string) (NumberFilterMethod, error) {
	for i, name := range methodNames {
		if strings.EqualFold(name, s) {
			return NumberFilterMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown number filter method %q", s)
}

// NumberSelection is the needle of the number filter.
type NumberSelection struct {
	Method      NumberFilterMethod
	Value       row.Value
	SecondValue row.Value
}

// NumberMatches evaluates a NumberSelection against haystack. Only numbers
// and undefined take part; any other haystack kind never matches.
func NumberMatches(needle any, haystack row.Value, c *column.Definition, st column.State) bool {
	var sel NumberSelection
	switch x := needle.(type) {
	case NumberSelection:
		sel = x
	case *NumberSelection:
		if x == nil {
			return false
		}
		sel = *x
	default:
		return false
	}

	if haystack.Kind != row.KindUndefined && haystack.Kind != row.KindNumber {
		return false
	}

	switch sel.Method {
	case MethodEquals:
		return row.Equal(haystack, sel.Value)
	case MethodDoesNotEqual:
		return !row.Equal(haystack, sel.Value)
	}

	// All the remaining comparisons require a value.
	h, ok := haystack.AsNumber()
	if !ok {
		return false
	}

	switch sel.Method {
	case MethodGreaterThan:
		v, ok := sel.Value.AsNumber()
		return ok && h > v
	case MethodGreaterThanOrEqual:
		v, ok := sel.Value.AsNumber()
		return ok && h >= v
	case MethodLessThan:
		v, ok := sel.Value.AsNumber()
		return ok && h < v
	case MethodLessThanOrEqual:
		v, ok := sel.Value.AsNumber()
		return ok && h <= v
	case MethodBetween:
		lo, ok1 := sel.Value.AsNumber()
		hi, ok2 := sel.SecondValue.AsNumber()
		return ok1 && ok2 && h >= lo && h <= hi
	case MethodTopN:
		n, ok := sel.Value.AsNumber()
		if !ok || n <= 0 || n != float64(int(n)) {
			return false
		}
		key := fmt.Sprintf("number-filter-%s.top-%d", c.Name, int(n))
		threshold, ok := cache.GetOrAdd(st.Cache(), key, func() (float64, bool) {
			return ColumnTopN(st.Rows(), int(n), c)
		})
		return ok && h >= threshold
	case MethodAboveAverage:
		return h > cachedAverage(c, st)
	case MethodBelowAverage:
		return h < cachedAverage(c, st)
	default:
		return false
	}
}

func cachedAverage(c *column.Definition, st column.State) float64 {
	avg, _ := cache.GetOrAdd(st.Cache(), "number-filter-"+c.Name+".average", func() (float64, bool) {
		return ColumnAverage(st.Rows(), c), true
	})
	return avg
}

// ColumnAverage returns the arithmetic mean of the numeric filter values of
// rows. Rows without a numeric value are excluded; no values yields 0.
func ColumnAverage(rows []row.Row, c *column.Definition) float64 {
	var total float64
	count := 0
	for _, r := range rows {
		if v, ok := c.FilterValue(r).AsNumber(); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// ColumnTopN returns the value at position n in the descending order of the
// numeric filter values. When n exceeds the number of values the smallest
// value is returned. It reports false when there are no values.
func ColumnTopN(rows []row.Row, n int, c *column.Definition) (float64, bool) {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		if v, ok := c.FilterValue(r).AsNumber(); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 || n <= 0 {
		return 0, false
	}

	slices.SortFunc(values, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	if n <= len(values) {
		return values[n-1], true
	}
	return values[len(values)-1], true
}
