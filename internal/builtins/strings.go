package builtins

import (
	"fmt"
	"strings"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerStrings(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "CONCAT", MinArgs: 0, MaxArgs: registry.Unbounded, Call: biConcat,
		Description: "Concatenates its arguments' string forms, skipping Null arguments.",
		Example:     `CONCAT("a", NULL, "b") = "ab"`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "UPPER", MinArgs: 1, MaxArgs: 1, Call: biUpper,
		Description: "Upper-cases a String.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "LOWER", MinArgs: 1, MaxArgs: 1, Call: biLower,
		Description: "Lower-cases a String.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "TRIM", MinArgs: 1, MaxArgs: 1, Call: biTrim,
		Description: "Strips leading/trailing whitespace from a String.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "LENGTH", MinArgs: 1, MaxArgs: 1, Call: biLength,
		Description: "Length of a String (runes), Array (elements), or 0 for Null.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SPLIT", MinArgs: 1, MaxArgs: 2, Call: biSplit,
		Description: "Splits a String on a separator (default \",\") into an Array of String.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SUBSTITUTE", MinArgs: 3, MaxArgs: 3, Call: biSubstitute,
		Description: "Replaces every occurrence of old with new in text.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SUBSTITUTEM", MinArgs: 3, MaxArgs: 3, Call: biSubstitute,
		Description: "Alias for SUBSTITUTE.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "REPLACE", MinArgs: 4, MaxArgs: 4, Call: biReplace,
		Description: "Excel-style positional replace: REPLACE(text, start, numChars, new); start is 1-based.",
		Example:     `REPLACE("abcdef", 3, 2, "XY") = "abXYef"`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "LEFT", MinArgs: 1, MaxArgs: 2, Call: biLeft,
		Description: "Leftmost n characters of text (default 1).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "RIGHT", MinArgs: 1, MaxArgs: 2, Call: biRight,
		Description: "Rightmost n characters of text (default 1).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MID", MinArgs: 2, MaxArgs: 3, Call: biMid,
		Description: "Excel-style substring: MID(text, start, numChars?); start is 1-based.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SUBSTRING", MinArgs: 2, MaxArgs: 3, Call: biSubstring,
		Description: "0-based substring: SUBSTRING(text, start, length?); out-of-range clamps to \"\".",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "INCLUDES", MinArgs: 2, MaxArgs: 2, Call: biIncludes,
		Description: "Whether text contains substring (case-sensitive).",
	})
}

func biConcat(args []value.Value) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		if a.IsNull() {
			continue
		}
		b.WriteString(a.ToString())
	}
	return value.String(b.String()), nil
}

func biUpper(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("UPPER expects a String, got %s", args[0].Kind())
	}
	return value.String(strings.ToUpper(args[0].Str())), nil
}

func biLower(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("LOWER expects a String, got %s", args[0].Kind())
	}
	return value.String(strings.ToLower(args[0].Str())), nil
}

func biTrim(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("TRIM expects a String, got %s", args[0].Kind())
	}
	return value.String(strings.TrimSpace(args[0].Str())), nil
}

func biLength(args []value.Value) (value.Value, error) {
	switch args[0].Kind() {
	case value.KindNull:
		return value.Number(0), nil
	case value.KindString:
		return value.Number(float64(len([]rune(args[0].Str())))), nil
	case value.KindArray:
		return value.Number(float64(args[0].Len())), nil
	default:
		return value.Value{}, fmt.Errorf("LENGTH expects a String, Array, or Null, got %s", args[0].Kind())
	}
}

func biSplit(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("SPLIT expects a String, got %s", args[0].Kind())
	}
	sep := ","
	if len(args) == 2 {
		if args[1].Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("SPLIT separator must be a String")
		}
		sep = args[1].Str()
	}
	parts := strings.Split(args[0].Str(), sep)
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.String(p)
	}
	return value.Array(elems), nil
}

func biSubstitute(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString || args[1].Kind() != value.KindString || args[2].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("SUBSTITUTE expects three String arguments")
	}
	return value.String(strings.ReplaceAll(args[0].Str(), args[1].Str(), args[2].Str())), nil
}

func biReplace(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString || args[3].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("REPLACE expects text and new to be String")
	}
	if args[1].Kind() != value.KindNumber || args[2].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("REPLACE expects start and numChars to be Number")
	}
	runes := []rune(args[0].Str())
	start := int(args[1].Num()) - 1
	numChars := int(args[2].Num())
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := start + numChars
	if end > len(runes) || numChars < 0 {
		end = len(runes)
	}
	out := string(runes[:start]) + args[3].Str() + string(runes[end:])
	return value.String(out), nil
}

func biLeft(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("LEFT expects a String, got %s", args[0].Kind())
	}
	n := 1
	if len(args) == 2 {
		if args[1].Kind() != value.KindNumber {
			return value.Value{}, fmt.Errorf("LEFT count must be a Number")
		}
		n = int(args[1].Num())
	}
	runes := []rune(args[0].Str())
	if n < 0 {
		n = 0
	}
	if n > len(runes) {
		n = len(runes)
	}
	return value.String(string(runes[:n])), nil
}

func biRight(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("RIGHT expects a String, got %s", args[0].Kind())
	}
	n := 1
	if len(args) == 2 {
		if args[1].Kind() != value.KindNumber {
			return value.Value{}, fmt.Errorf("RIGHT count must be a Number")
		}
		n = int(args[1].Num())
	}
	runes := []rune(args[0].Str())
	if n < 0 {
		n = 0
	}
	if n > len(runes) {
		n = len(runes)
	}
	return value.String(string(runes[len(runes)-n:])), nil
}

func biMid(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("MID expects a String, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("MID start must be a Number")
	}
	runes := []rune(args[0].Str())
	start := int(args[1].Num()) - 1
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	end := len(runes)
	if len(args) == 3 {
		if args[2].Kind() != value.KindNumber {
			return value.Value{}, fmt.Errorf("MID numChars must be a Number")
		}
		end = start + int(args[2].Num())
		if end > len(runes) {
			end = len(runes)
		}
	}
	return value.String(string(runes[start:end])), nil
}

func biSubstring(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("SUBSTRING expects a String, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("SUBSTRING start must be a Number")
	}
	runes := []rune(args[0].Str())
	start := int(args[1].Num())
	if start < 0 || start >= len(runes) {
		return value.String(""), nil
	}
	end := len(runes)
	if len(args) == 3 {
		if args[2].Kind() != value.KindNumber {
			return value.Value{}, fmt.Errorf("SUBSTRING length must be a Number")
		}
		length := int(args[2].Num())
		if length < 0 {
			length = 0
		}
		end = start + length
		if end > len(runes) {
			end = len(runes)
		}
	}
	return value.String(string(runes[start:end])), nil
}

func biIncludes(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindString || args[1].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("INCLUDES expects two String arguments")
	}
	return value.Boolean(strings.Contains(args[0].Str(), args[1].Str())), nil
}
