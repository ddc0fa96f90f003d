package flagvalue

import (
	"fmt"
	"strings"

	"braces.dev/errtrace"
)

// List is a generic flag.Getter
// that accepts zero or more instances of the same flag
// and combines them into a list.
type List[T any, PT Getter[T]] []T

// ListOf wraps a slice of flag.Getter objects
// to accept zero or more instances of that flag.
//
//	flag.Var(flagvalue.ListOf(&items), "item", ...)
func ListOf[T any, PT Getter[T]](vs *[]T) *List[T, PT] {
	return (*List[T, PT])(vs)
}

// Get returns the values recorded so far
// as a slice of the underlying type.
func (lv *List[T, PT]) Get() any { return []T(*lv) }

// String returns a comma separated list of the values in this list.
func (lv *List[T, PT]) String() string {
	if lv == nil {
		return ""
	}
	items := make([]string, len(*lv))
	for i, v := range *lv {
		items[i] = fmt.Sprint(v)
	}
	return strings.Join(items, ",")
}

// Set receives a single flag argument into this list.
//
// Comma separated arguments are split into multiple items
// so that environment variables and configuration files
// can specify a whole list at once.
func (lv *List[T, PT]) Set(s string) error {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		var v T
		if err := PT(&v).Set(item); err != nil {
			return errtrace.Wrap(err)
		}
		*lv = append(*lv, v)
	}
	return nil
}
