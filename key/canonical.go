package key

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Canonicalize produces a deterministic byte representation of v, suitable
// for digesting. The encoding is JSON-shaped: map keys are sorted, struct
// fields appear in declaration order, and []byte is base64-encoded.
// Values that have no deterministic serialization (funcs, channels,
// complex numbers, NaN) fail with ErrUnhashableArgument.
func Canonicalize(v any) ([]byte, error) {
	enc := canonicalEncoder{seen: make(map[uintptr]bool)}
	buf, err := enc.append(nil, reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

type canonicalEncoder struct {
	// seen tracks container addresses on the current path for cycle
	// detection.
	seen map[uintptr]bool
}

var timeType = reflect.TypeOf(time.Time{})

func (e *canonicalEncoder) append(buf []byte, v reflect.Value) ([]byte, error) {
	if !v.IsValid() {
		return append(buf, "null"...), nil
	}

	switch v.Kind() {
	case reflect.Bool:
		return strconv.AppendBool(buf, v.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(buf, v.Int(), 10), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(buf, v.Uint(), 10), nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: non-finite float %v", ErrUnhashableArgument, f)
		}
		return strconv.AppendFloat(buf, f, 'g', -1, 64), nil

	case reflect.String:
		return appendJSONString(buf, v.String()), nil

	case reflect.Pointer:
		if v.IsNil() {
			return append(buf, "null"...), nil
		}
		addr := v.Pointer()
		if e.seen[addr] {
			return nil, fmt.Errorf("%w: %s", ErrCyclicValue, v.Type())
		}
		e.seen[addr] = true
		buf, err := e.append(buf, v.Elem())
		delete(e.seen, addr)
		return buf, err

	case reflect.Interface:
		if v.IsNil() {
			return append(buf, "null"...), nil
		}
		return e.append(buf, v.Elem())

	case reflect.Slice:
		if v.IsNil() {
			return append(buf, "null"...), nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return appendJSONString(buf, base64.StdEncoding.EncodeToString(v.Bytes())), nil
		}
		return e.appendList(buf, v)

	case reflect.Array:
		return e.appendList(buf, v)

	case reflect.Map:
		if v.IsNil() {
			return append(buf, "null"...), nil
		}
		addr := v.Pointer()
		if e.seen[addr] {
			return nil, fmt.Errorf("%w: %s", ErrCyclicValue, v.Type())
		}
		e.seen[addr] = true
		buf, err := e.appendMap(buf, v)
		delete(e.seen, addr)
		return buf, err

	case reflect.Struct:
		if v.Type() == timeType {
			t := v.Interface().(time.Time)
			return appendJSONString(buf, t.UTC().Format(time.RFC3339Nano)), nil
		}
		return e.appendStruct(buf, v)

	default:
		// Chan, Func, Complex64/128, UnsafePointer.
		return nil, fmt.Errorf("%w: unsupported kind %s", ErrUnhashableArgument, v.Kind())
	}
}

func (e *canonicalEncoder) appendList(buf []byte, v reflect.Value) ([]byte, error) {
	buf = append(buf, '[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = e.append(buf, v.Index(i))
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

// appendMap encodes a map with entries ordered by the canonical form of
// their keys, so iteration order never leaks into the digest.
func (e *canonicalEncoder) appendMap(buf []byte, v reflect.Value) ([]byte, error) {
	type entry struct {
		key []byte
		val reflect.Value
	}
	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		kb, err := e.append(nil, iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: kb, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool {
		return string(entries[i].key) < string(entries[j].key)
	})

	buf = append(buf, '{')
	for i, ent := range entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, ent.key...)
		buf = append(buf, ':')
		var err error
		buf, err = e.append(buf, ent.val)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func (e *canonicalEncoder) appendStruct(buf []byte, v reflect.Value) ([]byte, error) {
	t := v.Type()
	buf = append(buf, '{')
	first := true
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendJSONString(buf, name)
		buf = append(buf, ':')
		var err error
		buf, err = e.append(buf, v.Field(i))
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

// fieldName resolves the canonical name of a struct field, honoring the
// `cache` tag: `cache:"-"` drops the field, `cache:"other"` renames it.
func fieldName(field reflect.StructField) (name string, skip bool) {
	tag := field.Tag.Get("cache")
	switch tag {
	case "":
		return field.Name, false
	case "-":
		return "", true
	default:
		return tag, false
	}
}

// appendJSONString appends s JSON-quoted. json.Marshal on a string cannot
// fail, so the error is discarded.
func appendJSONString(buf []byte, s string) []byte {
	b, _ := json.Marshal(s)
	return append(buf, b...)
}
