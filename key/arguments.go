package key

import (
	"reflect"
	"sort"
)

// Argument is one named parameter bound for a call.
type Argument struct {
	Name  string
	Value any
}

// SingleArgumentName is the name given to an input that does not expand
// into named arguments (scalars, slices, non-string-keyed maps).
const SingleArgumentName = "input"

// BindArguments flattens a call input into its named arguments:
//
//   - struct (or pointer to struct): one argument per exported field, in
//     declaration order; the `cache` tag renames (`cache:"other"`) or drops
//     (`cache:"-"`) a field
//   - map[string]V: one argument per entry, ordered by map key
//   - anything else: a single argument named "input"
//
// Defaulted (zero-valued) fields still participate: binding is by the
// declared parameter set, not by what the caller happened to set. The
// exclude predicate then removes named arguments from the set entirely.
func BindArguments(input any, exclude func(name string) bool) []Argument {
	args := expand(input)
	if exclude == nil {
		return args
	}
	kept := args[:0]
	for _, a := range args {
		if exclude(a.Name) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

func expand(input any) []Argument {
	v := reflect.ValueOf(input)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return []Argument{{Name: SingleArgumentName, Value: nil}}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if v.Type() == timeType {
			break
		}
		t := v.Type()
		args := make([]Argument, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, skip := fieldName(field)
			if skip {
				continue
			}
			args = append(args, Argument{Name: name, Value: v.Field(i).Interface()})
		}
		return args

	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			keys = append(keys, iter.Key().String())
		}
		sort.Strings(keys)
		args := make([]Argument, 0, len(keys))
		for _, k := range keys {
			args = append(args, Argument{
				Name:  k,
				Value: v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())).Interface(),
			})
		}
		return args
	}

	return []Argument{{Name: SingleArgumentName, Value: input}}
}
