package builtins

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerStats(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MEDIAN", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biMedian,
		Description: "Median of its arguments, flattening nested Arrays.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MODE_SNGL", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biModeSngl,
		Description: "Most frequent value; ties broken by smallest value.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "STDEV_P", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biStdevP,
		Description: "Population standard deviation.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "VAR_P", MinArgs: 1, MaxArgs: registry.Unbounded, Call: biVarP,
		Description: "Population variance.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "PERCENTILE_INC", MinArgs: 2, MaxArgs: 2, Call: biPercentileInc,
		Description: "Inclusive-range percentile via linear interpolation: PERCENTILE_INC(array, k).",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "QUARTILE_INC", MinArgs: 2, MaxArgs: 2, Call: biQuartileInc,
		Description: "Inclusive-range quartile: QUARTILE_INC(array, quart) for quart in 0..4.",
	})
}

func sortedCopy(nums []float64) []float64 {
	out := append([]float64(nil), nums...)
	sort.Float64s(out)
	return out
}

func biMedian(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("MEDIAN requires at least one Number")
	}
	s := sortedCopy(nums)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return value.Number(s[mid]), nil
	}
	return value.Number((s[mid-1] + s[mid]) / 2), nil
}

func biModeSngl(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("MODE_SNGL requires at least one Number")
	}
	counts := make(map[float64]int)
	for _, n := range nums {
		counts[n]++
	}
	best := nums[0]
	bestCount := 0
	s := sortedCopy(nums)
	for _, n := range s {
		if counts[n] > bestCount {
			bestCount = counts[n]
			best = n
		}
	}
	return value.Number(best), nil
}

func biStdevP(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("STDEV_P requires at least one Number")
	}
	v := variance(nums)
	return value.Number(math.Sqrt(v)), nil
}

func biVarP(args []value.Value) (value.Value, error) {
	nums, err := flattenNumbers(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("VAR_P requires at least one Number")
	}
	return value.Number(variance(nums)), nil
}

func variance(nums []float64) float64 {
	mean := 0.0
	for _, n := range nums {
		mean += n
	}
	mean /= float64(len(nums))
	sq := 0.0
	for _, n := range nums {
		d := n - mean
		sq += d * d
	}
	return sq / float64(len(nums))
}

func percentile(sorted []float64, k float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := k * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func biPercentileInc(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("PERCENTILE_INC expects an Array, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("PERCENTILE_INC expects a Number k")
	}
	k := args[1].Num()
	if k < 0 || k > 1 {
		return value.Value{}, fmt.Errorf("PERCENTILE_INC k must be between 0 and 1, got %g", k)
	}
	nums, err := flattenNumbers(args[0].Elems())
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("PERCENTILE_INC requires a non-empty Array")
	}
	return value.Number(percentile(sortedCopy(nums), k)), nil
}

func biQuartileInc(args []value.Value) (value.Value, error) {
	if args[0].Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("QUARTILE_INC expects an Array, got %s", args[0].Kind())
	}
	if args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("QUARTILE_INC expects a Number quart")
	}
	q := args[1].Num()
	if q < 0 || q > 4 {
		return value.Value{}, fmt.Errorf("QUARTILE_INC quart must be between 0 and 4, got %g", q)
	}
	nums, err := flattenNumbers(args[0].Elems())
	if err != nil {
		return value.Value{}, err
	}
	if len(nums) == 0 {
		return value.Value{}, fmt.Errorf("QUARTILE_INC requires a non-empty Array")
	}
	return value.Number(percentile(sortedCopy(nums), q/4)), nil
}
