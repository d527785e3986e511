package fiberx

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// Deps is the dependency list handed to UseEffect. Elements are compared
// structurally; a type with an Equal method is compared through it.
//
// UseEffect keeps a deep copy of the list, so changing a slice, map or
// pointee in place after the call still registers as a change. Unexported
// struct fields, funcs and channels are not copied and stay shared.
type Deps []any

// depsEqualOpts lets cmp descend into unexported struct fields so that
// plain value types work as dependencies without extra options.
var depsEqualOpts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// depsChanged reports whether next differs from prev. Lists of different
// lengths always count as changed.
func depsChanged(prev, next Deps) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !depEqual(prev[i], next[i]) {
			return true
		}
	}
	return false
}

func depEqual(a, b any) (equal bool) {
	// cmp panics on values it cannot compare (e.g. cyclic pointers); treat
	// those as changed so the effect errs on the side of running.
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return cmp.Equal(a, b, depsEqualOpts...)
}

// copyDeps returns a copy of deps that shares no slice, map or pointer
// storage reachable through exported values.
func copyDeps(deps Deps) Deps {
	if deps == nil {
		return nil
	}
	out := make(Deps, len(deps))
	seen := make(map[copyKey]reflect.Value)
	for i, d := range deps {
		if d == nil {
			continue
		}
		out[i] = deepCopy(reflect.ValueOf(d), seen).Interface()
	}
	return out
}

// copyKey identifies storage already copied, so shared and cyclic
// references are copied once.
type copyKey struct {
	ptr uintptr
	len int
	typ reflect.Type
}

func deepCopy(v reflect.Value, seen map[copyKey]reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		k := copyKey{ptr: v.Pointer(), typ: v.Type()}
		if c, ok := seen[k]; ok {
			return c
		}
		c := reflect.New(v.Type().Elem())
		seen[k] = c
		c.Elem().Set(deepCopy(v.Elem(), seen))
		return c
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		k := copyKey{ptr: v.Pointer(), len: v.Len(), typ: v.Type()}
		if c, ok := seen[k]; ok {
			return c
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		seen[k] = c
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(deepCopy(v.Index(i), seen))
		}
		return c
	case reflect.Array:
		c := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(deepCopy(v.Index(i), seen))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		k := copyKey{ptr: v.Pointer(), typ: v.Type()}
		if c, ok := seen[k]; ok {
			return c
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		seen[k] = c
		// Keys are compared with ==, so they keep their identity.
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), deepCopy(iter.Value(), seen))
		}
		return c
	case reflect.Struct:
		c := reflect.New(v.Type()).Elem()
		c.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if f := c.Field(i); f.CanSet() {
				f.Set(deepCopy(v.Field(i), seen))
			}
		}
		return c
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		c := reflect.New(v.Type()).Elem()
		c.Set(deepCopy(v.Elem(), seen))
		return c
	}
	return v
}
