// Package state owns a grid's rows and recomputes its derived views.
//
// A State runs a three stage pipeline every time its inputs change:
//
//	rows -> filter -> sort -> visible
//
// The filter stage combines the quick filter with every active column
// selection, the sort stage orders the survivors by the active sort column,
// and the visible stage slices the current page window. Each stage replaces
// its output slice as a whole.
//
// State is not safe for concurrent use. It assumes one writer per grid.
package state
