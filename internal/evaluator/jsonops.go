package evaluator

import (
	"github.com/cwbudde/skillet/internal/jsonvalue"
	"github.com/cwbudde/skillet/internal/token"
	"github.com/cwbudde/skillet/internal/value"
)

// Dig walks a JSON value through a sequence of string keys or integer
// indices, returning args[1] (or Null) on any miss. It backs both the
// DIG(obj, keys, default?) function and the obj.dig([...], default?) /
// obj&.dig([...], default?) method forms, which share this one walker per
// spec.md §4.3. The Null-receiver branch below only serves the DIG
// function form: for the method form, evalMethodCall has already
// short-circuited a safe-nav Null receiver and rejected a non-safe one
// (dig is not one of the conversion methods exempted on Null).
func Dig(receiver value.Value, args []value.Value, pos token.Position) (value.Value, error) {
	if len(args) < 1 || args[0].Kind() != value.KindArray {
		return value.Value{}, newErr(ArityMismatch, pos, "dig expects an Array of keys as its first argument")
	}
	def := value.Null
	if len(args) > 1 {
		def = args[1]
	}

	if receiver.IsNull() {
		return value.Null, nil
	}
	if receiver.Kind() != value.KindJSON {
		return value.Value{}, newErr(TypeError, pos, "dig requires a Json receiver, got %s", receiver.Kind())
	}

	cur := receiver.JSONDoc()
	for _, keyVal := range args[0].Elems() {
		if cur == nil {
			return def, nil
		}
		switch keyVal.Kind() {
		case value.KindString:
			if cur.Kind() != jsonvalue.KindObject {
				return def, nil
			}
			next := cur.ObjectGet(keyVal.Str())
			if next == nil {
				return def, nil
			}
			cur = next
		case value.KindNumber:
			if cur.Kind() != jsonvalue.KindArray {
				return def, nil
			}
			idx := int(keyVal.Num())
			if idx < 0 || idx >= cur.ArrayLen() {
				return def, nil
			}
			cur = cur.ArrayGet(idx)
		default:
			return value.Value{}, newErr(TypeError, pos, "dig keys must be String or Number, got %s", keyVal.Kind())
		}
	}
	if cur == nil {
		return def, nil
	}
	return fromJSONDoc(cur), nil
}

func dig(receiver value.Value, args []value.Value, pos token.Position) (value.Value, error) {
	return Dig(receiver, args, pos)
}
