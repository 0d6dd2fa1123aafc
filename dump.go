package logging

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
)

// Dump logs the structure of v as a single Debug entry: exported struct
// fields, map entries and the first elements of slices and arrays. Cycles
// and deep nesting are cut short.
func (l *Logger) Dump(v interface{}) {
	if l == nil {
		return
	}
	if !Debug.Enabled(l.threshold) {
		l.filtered.Inc()
		return
	}

	d := dumper{visited: make(map[uintptr]bool)}
	d.value(v, emptyString, 0)
	l.Log(Debug, "Dump:\n"+strings.Join(d.lines, "\n"))
}

// Dump logs v through the service's Logger.
func (s *Service) Dump(v interface{}) {
	if s == nil || !s.isInitialized.Load() {
		return
	}
	s.logger.Load().Dump(v)
}

type dumper struct {
	lines   []string
	visited map[uintptr]bool
}

func (d *dumper) printf(depth int, format string, args ...interface{}) {
	d.lines = append(d.lines, strings.Repeat("  ", depth)+fmt.Sprintf(format, args...))
}

func (d *dumper) value(v interface{}, name string, depth int) {
	label := name
	if label == emptyString {
		label = "value"
	}
	if depth > maxDumpDepth {
		d.printf(depth, "%s: <max depth reached>", label)
		return
	}
	if v == nil {
		d.printf(depth, "%s: <nil>", label)
		return
	}

	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Interface || val.Kind() == reflect.Ptr {
		if val.IsNil() {
			d.printf(depth, "%s: <nil>", label)
			return
		}
		if val.Kind() == reflect.Ptr {
			ptr := val.Pointer()
			if d.visited[ptr] {
				d.printf(depth, "%s: <circular reference>", label)
				return
			}
			d.visited[ptr] = true
		}
		val = val.Elem()
	}

	typ := val.Type()
	switch val.Kind() {
	case reflect.Struct:
		d.printf(depth, "%s: %s {", label, typ.String())
		for i := 0; i < val.NumField(); i++ {
			field := val.Field(i)
			if !field.CanInterface() {
				continue
			}
			d.value(field.Interface(), typ.Field(i).Name, depth+1)
		}
		d.printf(depth, "}")

	case reflect.Map:
		d.printf(depth, "%s: %s (len: %d) {", label, typ.String(), val.Len())
		iter := val.MapRange()
		for iter.Next() {
			d.value(iter.Value().Interface(), fmt.Sprintf("[%v]", iter.Key().Interface()), depth+1)
		}
		d.printf(depth, "}")

	case reflect.Slice, reflect.Array:
		d.printf(depth, "%s: %s (len: %d) {", label, typ.String(), val.Len())
		for i := 0; i < val.Len() && i < maxDumpElements; i++ {
			elem := val.Index(i)
			if !elem.CanInterface() {
				continue
			}
			d.value(elem.Interface(), fmt.Sprintf("[%d]", i), depth+1)
		}
		if val.Len() > maxDumpElements {
			d.printf(depth+1, "... (%d more elements)", val.Len()-maxDumpElements)
		}
		d.printf(depth, "}")

	default:
		if val.CanInterface() {
			d.printf(depth, "%s: %v", label, val.Interface())
		} else {
			d.printf(depth, "%s: %v", label, v)
		}
	}
}
