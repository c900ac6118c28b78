package builtins

import (
	"fmt"
	"math"

	"github.com/cwbudde/skillet/internal/evaluator"
	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerArithmetic(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SUM", MinArgs: 0, MaxArgs: registry.Unbounded, Call: biSum,
		Description: "Sums its arguments, recursively flattening nested Array arguments.",
		Example:     `SUM(1, 2, [3, 4])`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "AVG", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biAvg,
		Description: "Averages its arguments, recursively flattening nested Array arguments.",
		Example:     `AVG([10, 20, 30])`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "AVERAGE", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biAvg,
		Description: "Alias for AVG.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MIN", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biMin,
		Description: "Returns the smallest Number among its arguments, flattening nested Arrays.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MAX", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biMax,
		Description: "Returns the largest Number among its arguments, flattening nested Arrays.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "COUNT", MinArgs: 0, MaxArgs: registry.Unbounded, Call: biCount,
		Description: "Counts its arguments, flattening nested Arrays (non-Number elements still count).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "ROUND", MinArgs: 1, MaxArgs: 2, Call: biRound,
		Description: "Rounds a Number to the given number of decimal digits (default 0), half to even.",
		Example:     `ROUND(2.5) = 2`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "ABS", MinArgs: 1, MaxArgs: 1, Call: biAbs,
		Description: "Absolute value of a Number.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "SQRT", MinArgs: 1, MaxArgs: 1, Call: biSqrt,
		Description: "Square root of a non-negative Number.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "POW", MinArgs: 2, MaxArgs: 2, Call: biPow,
		Description: "base raised to exponent.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "POWER", MinArgs: 2, MaxArgs: 2, Call: biPow,
		Description: "Alias for POW.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "INT", MinArgs: 1, MaxArgs: 1, Call: biInt,
		Description: "Largest integer not greater than the argument (floor, not truncation).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "CEILING", MinArgs: 1, MaxArgs: 1, Call: biCeiling,
		Description: "Smallest integer not less than the argument.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "FLOOR", MinArgs: 1, MaxArgs: 1, Call: biFloor,
		Description: "Largest integer not greater than the argument.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MOD", MinArgs: 2, MaxArgs: 2, Call: biMod,
		Description: "Remainder of a / b, truncated division.",
	})
}

// flattenNumbers recursively collects the Number leaves of args, descending
// into nested Array arguments, per spec.md §4.7's "SUM on nested arrays
// recursively flattens numeric elements".
func flattenNumbers(args []value.Value) ([]float64, error) {
	var out []float64
	for _, a := range args {
		switch a.Kind() {
		case value.KindNumber:
			out = append(out, a.Num())
		case value.KindArray:
			sub, err := flattenNumbers(a.Elems())
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		default:
			return nil, fmt.Errorf("expected Number or Array of Number, got %s", a.Kind())
		}
	}
	return out, nil
}

func biSum(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return value.Number(total), nil
}

func biAvg(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Number(0), nil
	}
	total := 0.0
	for _, n := range nums {
		total += n
	}
	return value.Number(total / float64(len(nums))), nil
}

func biMin(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("MIN requires at least one Number")
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n < best {
			best = n
		}
	}
	return value.Number(best), nil
}

func biMax(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("MAX requires at least one Number")
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if n > best {
			best = n
		}
	}
	return value.Number(best), nil
}

func biCount(args []value.Value) (value.Value, error) {
	count := 0
	var walk func(vs []value.Value)
	walk = func(vs []value.Value) {
		for _, v := range vs {
			if v.Kind() == value.KindArray {
				walk(v.Elems())
				continue
			}
			count++
		}
	}
	walk(args)
	return value.Number(float64(count)), nil
}

func biRound(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("ROUND expects a Number, got %s", args[0].Kind())
	}
	digits := 0
	if len(args) == 2 {
		if args[1].Kind() != value.KindNumber {
			return value.Value{}, fmt.Errorf("ROUND digits must be a Number")
		}
		digits = int(args[1].Num())
	}
	return value.Number(evaluator.Round(args[0].Num(), digits)), nil
}

func biAbs(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("ABS expects a Number, got %s", args[0].Kind())
	}
	return value.Number(math.Abs(args[0].Num())), nil
}

func biSqrt(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("SQRT expects a Number, got %s", args[0].Kind())
	}
	if args[0].Num() < 0 {
		return value.Value{}, fmt.Errorf("SQRT of a negative number (%g)", args[0].Num())
	}
	return value.Number(math.Sqrt(args[0].Num())), nil
}

func biPow(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber || args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("POW expects two Numbers, got %s and %s", args[0].Kind(), args[1].Kind())
	}
	return value.NewNumber(math.Pow(args[0].Num(), args[1].Num()))
}

func biInt(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("INT expects a Number, got %s", args[0].Kind())
	}
	return value.Number(math.Floor(args[0].Num())), nil
}

func biCeiling(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("CEILING expects a Number, got %s", args[0].Kind())
	}
	return value.Number(math.Ceil(args[0].Num())), nil
}

func biFloor(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("FLOOR expects a Number, got %s", args[0].Kind())
	}
	return value.Number(math.Floor(args[0].Num())), nil
}

func biMod(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindNumber || args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("MOD expects two Numbers, got %s and %s", args[0].Kind(), args[1].Kind())
	}
	a, b := args[0].Num(), args[1].Num()
	if b == 0 {
		return value.Value{}, fmt.Errorf("MOD by zero")
	}
	return value.Number(a - math.Trunc(a/b)*b), nil
}
