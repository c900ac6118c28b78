package builtins

import (
	"fmt"
	"math"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerFinancial(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "PMT", MinArgs: 3, MaxArgs: 5, Call: biPmt,
		Description: "Periodic payment for a loan: PMT(rate, nper, pv, fv=0, type=0). type=1 means payments due at the start of the period.",
		Example:     `PMT(0.05/12, 30*12, 100000)`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "FV", MinArgs: 3, MaxArgs: 5, Call: biFv,
		Description: "Future value of an investment: FV(rate, nper, pmt, pv=0, type=0).",
	})
}

func financialArgs(args []value.Value, n int) ([]float64, error) {
	out := make([]float64, n)
	for i := 0; i < len(args); i++ {
		if args[i].Kind() != value.KindNumber {
			return nil, fmt.Errorf("argument %d must be a Number, got %s", i+1, args[i].Kind())
		}
		out[i] = args[i].Num()
	}
	return out, nil
}

func biPmt(args []value.Value) (value.Value, error) {
	v, err := financialArgs(args, 5)
	if err != nil {
		return value.Value{}, err
	}
	rate, nper, pv, fv, typ := v[0], v[1], v[2], v[3], v[4]
	if nper == 0 {
		return value.Value{}, fmt.Errorf("PMT requires a non-zero nper")
	}
	if rate == 0 {
		return value.Number(-(pv + fv) / nper), nil
	}
	growth := math.Pow(1+rate, nper)
	pmt := -(pv*growth + fv) * rate / (growth - 1) / (1 + rate*typ)
	return value.Number(pmt), nil
}

func biFv(args []value.Value) (value.Value, error) {
	v, err := financialArgs(args, 5)
	if err != nil {
		return value.Value{}, err
	}
	rate, nper, pmt, pv, typ := v[0], v[1], v[2], v[3], v[4]
	if rate == 0 {
		return value.Number(-(pv + pmt*nper)), nil
	}
	growth := math.Pow(1+rate, nper)
	fv := -(pv*growth + pmt*(1+rate*typ)*(growth-1)/rate)
	return value.Number(fv), nil
}
