package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Env carries the ambient settings modifiers may need: the time zone for
// date values and the clock for relative dates. A Search builds one Env at
// construction and shares it across compiles.
type Env struct {
	Location *time.Location
	Now      func() time.Time
}

// Modifier coerces a raw token into a typed Value. Modifiers are pure
// functions chosen per field at registration time.
type Modifier func(valuestr string, env Env) (Value, error)

// none/null are a universal sentinel meaning "field is absent".
var noneValues = map[string]bool{"none": true, "null": true}

// isNone reports whether the token is the none/null sentinel.
func isNone(valuestr string) bool {
	return noneValues[strings.ToLower(valuestr)]
}

// isNumber reports whether the token parses as a float.
func isNumber(valuestr string) bool {
	_, err := strconv.ParseFloat(valuestr, 64)
	return err == nil
}

// unit maps a set of suffix aliases to a multiplier.
type unit struct {
	mult    float64
	aliases []string
}

// numberUnits are magnitude suffixes for plain numbers, largest first so
// the longest alias wins.
var numberUnits = []unit{
	{1e15, []string{"q", "qa", "quadrillion"}},
	{1e12, []string{"t", "tn", "trillion"}},
	{1e9, []string{"b", "bn", "billion"}},
	{1e6, []string{"m", "million"}},
	{1e3, []string{"k", "thousand"}},
}

// secondsUnits convert duration suffixes to seconds. A month is 31 days
// and a year 365, matching how people loosely quote durations.
var secondsUnits = []unit{
	{31536000, []string{"y", "yr", "yrs", "year", "years"}},
	{2678400, []string{"mo", "mos", "month", "months"}},
	{604800, []string{"w", "wk", "wks", "week", "weeks"}},
	{86400, []string{"d", "day", "days"}},
	{3600, []string{"h", "hr", "hrs", "hour", "hours"}},
	{60, []string{"m", "min", "mins", "minute", "minutes"}},
	{1, []string{"s", "sec", "secs", "second", "seconds"}},
}

var unitPattern = regexp.MustCompile(`^(-?[0-9.]+)\s*([a-z]+)$`)

// convertUnits parses a possibly unit-suffixed magnitude. Suffix matching
// is case-insensitive.
func convertUnits(valuestr string, units []unit) (float64, bool) {
	lowered := strings.ToLower(strings.TrimSpace(valuestr))
	if groups := unitPattern.FindStringSubmatch(lowered); groups != nil {
		value, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return 0, false
		}
		for _, u := range units {
			for _, alias := range u.aliases {
				if groups[2] == alias {
					return value * u.mult, true
				}
			}
		}
		return 0, false
	}
	value, err := strconv.ParseFloat(lowered, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Boolean coerces true/t/yes/y/1 and false/f/no/n/0, case-insensitively.
func Boolean(valuestr string, _ Env) (Value, error) {
	switch strings.ToLower(valuestr) {
	case "true", "t", "yes", "y", "1":
		return Value{Kind: ValueBool, Bool: true}, nil
	case "false", "f", "no", "n", "0":
		return Value{Kind: ValueBool, Bool: false}, nil
	}
	return Value{}, &InvalidValueError{Type: TypeBool, Value: valuestr}
}

// Number coerces plain integers and decimals plus unit-suffixed magnitudes
// such as 10k, 1.5m or 2billion.
func Number(valuestr string, _ Env) (Value, error) {
	value, ok := convertUnits(valuestr, numberUnits)
	if !ok {
		return Value{}, &InvalidValueError{Type: TypeNum, Value: valuestr}
	}
	return Value{Kind: ValueNumber, Number: value}, nil
}

// Duration coerces unit-suffixed durations such as 90s, 15min or 2w into a
// count of seconds.
func Duration(valuestr string, _ Env) (Value, error) {
	value, ok := convertUnits(valuestr, secondsUnits)
	if !ok {
		return Value{}, &InvalidValueError{Type: TypeNum, Value: valuestr}
	}
	return Value{Kind: ValueNumber, Number: value}, nil
}

// Percent coerces a number with an optional trailing '%', dividing by 100
// when the suffix is present.
func Percent(valuestr string, _ Env) (Value, error) {
	trimmed := strings.TrimSpace(valuestr)
	if strings.HasSuffix(trimmed, "%") {
		value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(trimmed, "%")), 64)
		if err != nil {
			return Value{}, &InvalidValueError{Type: TypeNum, Value: valuestr}
		}
		return Value{Kind: ValueNumber, Number: value / 100}, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Value{}, &InvalidValueError{Type: TypeNum, Value: valuestr}
	}
	return Value{Kind: ValueNumber, Number: value}, nil
}

// Identity passes the raw token through as a string.
func Identity(valuestr string, _ Env) (Value, error) {
	return Value{Kind: ValueString, Str: valuestr}, nil
}
