package debugs

import (
	"fmt"
	"reflect"

	"github.com/reusee/seq/seqvm"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/starlark"
)

func toStarlarkValue(v any) starlark.Value {
	switch v := v.(type) {

	case nil:
		return starlark.None

	case bool:
		return starlark.Bool(v)

	case []byte:
		return starlark.Bytes(v)
	case string:
		return starlark.String(v)

	case int:
		return starlark.MakeInt(v)
	case int8:
		return starlark.MakeInt(int(v))
	case int16:
		return starlark.MakeInt(int(v))
	case int32:
		return starlark.MakeInt(int(v))
	case int64:
		return starlark.MakeInt64(v)

	case uint:
		return starlark.MakeUint(v)
	case uint8:
		return starlark.MakeUint(uint(v))
	case uint16:
		return starlark.MakeUint(uint(v))
	case uint32:
		return starlark.MakeUint(uint(v))
	case uint64:
		return starlark.MakeUint64(v)

	case float32:
		return starlark.Float(v)
	case float64:
		return starlark.Float(v)

	case seqvm.Value:
		return engineValueToStarlark(v)

	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			elems[i] = toStarlarkValue(e)
		}
		return starlark.NewList(elems)

	case map[string]any:
		d := starlark.NewDict(len(v))
		for k, val := range v {
			d.SetKey(starlark.String(k), toStarlarkValue(val))
		}
		return d

	}

	value := reflect.ValueOf(v)
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool())

	case reflect.String:
		return starlark.String(value.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(value.Uint())

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float())

	case reflect.Slice, reflect.Array:
		l := value.Len()
		elems := make([]starlark.Value, l)
		for i := range l {
			elem := value.Index(i)
			elems[i] = toStarlarkValue(elem.Interface())
		}
		return starlark.NewList(elems)

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			d.SetKey(
				toStarlarkValue(iter.Key().Interface()),
				toStarlarkValue(iter.Value().Interface()),
			)
		}
		return d

	case reflect.Struct:
		n := value.NumField()
		d := starlark.NewDict(n)
		typ := value.Type()
		for i := range n {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			d.SetKey(
				starlark.String(field.Name),
				toStarlarkValue(value.Field(i).Interface()),
			)
		}
		return d

	case reflect.Pointer, reflect.Interface:
		elem := value.Elem()
		if !elem.IsValid() {
			return starlark.None
		}
		return toStarlarkValue(elem.Interface())

	case reflect.Func:
		return starlarkutil.MakeFunc("", value.Interface())

	}

	panic(fmt.Errorf("unsupported type for starlark: %T", v))
}

// engineValueToStarlark maps engine values onto the nearest Starlark
// shapes: cons chains and vectors become lists, objects become dicts.
func engineValueToStarlark(v seqvm.Value) starlark.Value {
	switch v.Kind {

	case seqvm.KindNil:
		return starlark.None

	case seqvm.KindNumber:
		return starlark.Float(v.Num)

	case seqvm.KindSymbol:
		return starlark.String(v.Sym)

	case seqvm.KindString:
		return starlark.Bytes(v.Heap.(*seqvm.String).Bytes)

	case seqvm.KindList:
		items := v.Heap.(*seqvm.List).Items
		elems := make([]starlark.Value, len(items))
		for i, item := range items {
			elems[i] = engineValueToStarlark(item)
		}
		return starlark.NewList(elems)

	case seqvm.KindVector:
		floats := v.Heap.(*seqvm.Vector).Floats
		elems := make([]starlark.Value, len(floats))
		for i, f := range floats {
			elems[i] = starlark.Float(f)
		}
		return starlark.NewList(elems)

	case seqvm.KindCons:
		var elems []starlark.Value
		for v.Kind == seqvm.KindCons {
			cell := v.Heap.(*seqvm.Cons)
			elems = append(elems, engineValueToStarlark(cell.Car))
			v = cell.Cdr
		}
		if v.Kind != seqvm.KindNil {
			elems = append(elems, engineValueToStarlark(v))
		}
		return starlark.NewList(elems)

	case seqvm.KindObject:
		fields := v.Heap.(*seqvm.Object).Fields
		d := starlark.NewDict(len(fields))
		for key, val := range fields {
			d.SetKey(starlark.String(key), engineValueToStarlark(val))
		}
		return d

	case seqvm.KindQuote:
		return engineValueToStarlark(v.Heap.(*seqvm.Quote).Inner)

	case seqvm.KindClosure:
		return starlark.String("#<closure>")

	case seqvm.KindNative:
		return starlark.String("#<native " + v.Native.Name + ">")
	}

	return starlark.None
}
