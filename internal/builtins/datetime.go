package builtins

import (
	"fmt"
	"time"

	"github.com/cwbudde/skillet/internal/registry"
	"github.com/cwbudde/skillet/internal/value"
)

func registerDatetime(r *registry.Registry) {
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "NOW", MinArgs: 0, MaxArgs: 0, Call: biNow,
		Description: "Current wall-clock time as a DateTime.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "DATE", MinArgs: 0, MaxArgs: 0, Call: biDate,
		Description: "Today at midnight, as a DateTime.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "TIME", MinArgs: 0, MaxArgs: 0, Call: biTime,
		Description: "Seconds elapsed since midnight today, as a Number.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "YEAR", MinArgs: 1, MaxArgs: 1, Call: biYear,
		Description: "Calendar year of a DateTime.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "MONTH", MinArgs: 1, MaxArgs: 1, Call: biMonth,
		Description: "Calendar month (1-12) of a DateTime.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "DAY", MinArgs: 1, MaxArgs: 1, Call: biDay,
		Description: "Day of the month of a DateTime.",
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "DATEADD", MinArgs: 3, MaxArgs: 3, Call: biDateAdd,
		Description: `DATEADD(datetime, amount, unit); unit in "days"|"hours"|"minutes"|"seconds"|"years".`,
	})
	r.RegisterBuiltin(&registry.Descriptor{
		Name: "DATEDIFF", MinArgs: 3, MaxArgs: 3, Call: biDateDiff,
		Description: `DATEDIFF(datetime1, datetime2, unit); unit in "days"|"hours"|"minutes"|"seconds"|"years".`,
	})
}

func biNow(args []value.Value) (value.Value, error) {
	return value.DateTime(time.Now().Unix()), nil
}

func biDate(args []value.Value) (value.Value, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return value.DateTime(midnight.Unix()), nil
}

func biTime(args []value.Value) (value.Value, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return value.Number(now.Sub(midnight).Seconds()), nil
}

func asDateTime(v value.Value, who string) (time.Time, error) {
	if v.Kind() != value.KindDateTime {
		return time.Time{}, fmt.Errorf("%s expects a DateTime, got %s", who, v.Kind())
	}
	return time.Unix(v.Unix(), 0).UTC(), nil
}

func biYear(args []value.Value) (value.Value, error) {
	t, err := asDateTime(args[0], "YEAR")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(t.Year())), nil
}

func biMonth(args []value.Value) (value.Value, error) {
	t, err := asDateTime(args[0], "MONTH")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(t.Month())), nil
}

func biDay(args []value.Value) (value.Value, error) {
	t, err := asDateTime(args[0], "DAY")
	if err != nil {
		return value.Value{}, err
	}
	return value.Number(float64(t.Day())), nil
}

func dateUnitDuration(t time.Time, amount float64, unit string) (time.Time, error) {
	switch unit {
	case "days":
		return t.AddDate(0, 0, int(amount)), nil
	case "years":
		return t.AddDate(int(amount), 0, 0), nil
	case "hours":
		return t.Add(time.Duration(amount * float64(time.Hour))), nil
	case "minutes":
		return t.Add(time.Duration(amount * float64(time.Minute))), nil
	case "seconds":
		return t.Add(time.Duration(amount * float64(time.Second))), nil
	default:
		return time.Time{}, fmt.Errorf("unknown unit %q", unit)
	}
}

func biDateAdd(args []value.Value) (value.Value, error) {
	t, err := asDateTime(args[0], "DATEADD")
	if err != nil {
		return value.Value{}, err
	}
	if args[1].Kind() != value.KindNumber {
		return value.Value{}, fmt.Errorf("DATEADD amount must be a Number")
	}
	if args[2].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("DATEADD unit must be a String")
	}
	out, err := dateUnitDuration(t, args[1].Num(), args[2].Str())
	if err != nil {
		return value.Value{}, err
	}
	return value.DateTime(out.Unix()), nil
}

func biDateDiff(args []value.Value) (value.Value, error) {
	t1, err := asDateTime(args[0], "DATEDIFF")
	if err != nil {
		return value.Value{}, err
	}
	t2, err := asDateTime(args[1], "DATEDIFF")
	if err != nil {
		return value.Value{}, err
	}
	if args[2].Kind() != value.KindString {
		return value.Value{}, fmt.Errorf("DATEDIFF unit must be a String")
	}
	d := t2.Sub(t1)
	switch args[2].Str() {
	case "seconds":
		return value.Number(d.Seconds()), nil
	case "minutes":
		return value.Number(d.Minutes()), nil
	case "hours":
		return value.Number(d.Hours()), nil
	case "days":
		return value.Number(d.Hours() / 24), nil
	case "years":
		years := t2.Year() - t1.Year()
		return value.Number(float64(years)), nil
	default:
		return value.Value{}, fmt.Errorf("unknown unit %q", args[2].Str())
	}
}
