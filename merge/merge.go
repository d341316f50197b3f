// Package merge provides the reflective deep-clone and precedence-overlay
// primitives the composition layer builds on.
package merge

import "reflect"

// Layers overlays values ordered from strongest to weakest, returning a new
// value that keeps populated slots from stronger layers while filling missing
// data (nil pointers, maps, slices, interfaces) from weaker ones. The inputs
// are never mutated.
func Layers[T any](layers ...T) T {
	var zero T
	if len(layers) == 0 {
		return zero
	}

	resolved := cloneValue(reflect.ValueOf(layers[len(layers)-1]))
	for i := len(layers) - 2; i >= 0; i-- {
		resolved = overlayValue(reflect.ValueOf(layers[i]), resolved)
	}

	if !resolved.IsValid() {
		return zero
	}
	if resolved.Type() != reflect.TypeOf(zero) {
		// The resolved value might be addressable when T is not; convert back.
		out := reflect.New(reflect.TypeOf(zero)).Elem()
		out.Set(resolved.Convert(reflect.TypeOf(zero)))
		return out.Interface().(T)
	}
	return resolved.Interface().(T)
}

// overlayValue resolves top over under: top wins wherever it carries data,
// under fills the gaps. Maps merge per key, structs per field.
func overlayValue(top, under reflect.Value) reflect.Value {
	if !top.IsValid() {
		return cloneValue(under)
	}

	switch top.Kind() {
	case reflect.Pointer:
		if top.IsNil() {
			return cloneValue(under)
		}
		var underElem reflect.Value
		if under.IsValid() && under.Kind() == reflect.Pointer && !under.IsNil() {
			underElem = under.Elem()
		}
		resolved := overlayValue(top.Elem(), underElem)
		out := reflect.New(top.Type().Elem())
		out.Elem().Set(resolved)
		return out
	case reflect.Interface:
		if top.IsNil() {
			return cloneValue(under)
		}
		var underElem reflect.Value
		if under.IsValid() && !under.IsNil() {
			underElem = under.Elem()
		}
		resolved := overlayValue(top.Elem(), underElem)
		return resolved.Convert(top.Type())
	case reflect.Struct:
		out := reflect.New(top.Type()).Elem()
		var underStruct reflect.Value
		if under.IsValid() && under.Type() == top.Type() {
			underStruct = under
		}
		for i := 0; i < top.NumField(); i++ {
			field := out.Field(i)
			if !field.CanSet() {
				continue
			}
			var underField reflect.Value
			if underStruct.IsValid() {
				underField = underStruct.Field(i)
			}
			field.Set(overlayValue(top.Field(i), underField))
		}
		return out
	case reflect.Map:
		if top.IsNil() {
			return cloneValue(under)
		}
		out := reflect.MakeMapWithSize(top.Type(), top.Len())
		if under.IsValid() && under.Kind() == reflect.Map && !under.IsNil() {
			iter := under.MapRange()
			for iter.Next() {
				out.SetMapIndex(iter.Key(), cloneValue(iter.Value()))
			}
		}
		iter := top.MapRange()
		for iter.Next() {
			key := iter.Key()
			value := iter.Value()
			existing := out.MapIndex(key)
			if existing.IsValid() {
				out.SetMapIndex(key, overlayValue(value, existing))
				continue
			}
			out.SetMapIndex(key, cloneValue(value))
		}
		return out
	case reflect.Slice:
		if top.IsNil() {
			return cloneValue(under)
		}
		out := reflect.MakeSlice(top.Type(), top.Len(), top.Len())
		for i := 0; i < top.Len(); i++ {
			out.Index(i).Set(cloneValue(top.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(top.Type()).Elem()
		for i := 0; i < top.Len(); i++ {
			var underElem reflect.Value
			if under.IsValid() && under.Kind() == reflect.Array && under.Len() > i {
				underElem = under.Index(i)
			}
			out.Index(i).Set(overlayValue(top.Index(i), underElem))
		}
		return out
	default:
		return cloneValue(top)
	}
}
