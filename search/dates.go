package search

import (
	"strconv"
	"strings"
	"time"
)

// monthNames maps full and abbreviated month names, plus the very common
// "sept", to months.
var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "sept": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// weekdayNames maps full and abbreviated weekday names to weekdays.
var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// pointLayouts are the explicit date/time formats accepted as a single
// instant rather than a day/month/year range.
var pointLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Date coerces a date token into a half-open time range whose width
// reflects the token's granularity: "2024" covers the year, "march 2024"
// the month, "yesterday" the day. Explicit timestamps coerce to a point
// value. Underscores are treated as spaces, so "last_week" works where a
// bare term cannot contain one.
func Date(valuestr string, env Env) (Value, error) {
	loc := env.Location
	if loc == nil {
		loc = time.Local
	}
	nowFunc := env.Now
	if nowFunc == nil {
		nowFunc = time.Now
	}
	now := nowFunc().In(loc)

	raw := strings.TrimSpace(strings.ReplaceAll(valuestr, "_", " "))
	norm := strings.ToLower(raw)
	delim := dateDelimiter(norm)
	words := strings.Fields(strings.NewReplacer(".", " ", "/", " ", "-", " ").Replace(norm))
	joined := strings.Join(words, " ")

	if v, ok := relativeDate(joined, words, now, loc); ok {
		return v, nil
	}
	if v, ok := wordyDate(words, now, loc); ok {
		return v, nil
	}
	if v, ok := numericDate(words, delim, loc); ok {
		return v, nil
	}
	for _, layout := range pointLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return Value{Kind: ValueTime, Time: t}, nil
		}
	}
	return Value{}, &InvalidValueError{Type: TypeDate, Value: valuestr}
}

// dateDelimiter returns the last of '.', '/', '-' present in the token;
// the delimiter disambiguates M/D/Y from D.M.Y numeric triples.
func dateDelimiter(norm string) byte {
	var delim byte
	if strings.Contains(norm, ".") {
		delim = '.'
	}
	if strings.Contains(norm, "/") {
		delim = '/'
	}
	if strings.Contains(norm, "-") {
		delim = '-'
	}
	return delim
}

// relativeDate handles tokens anchored to the current time: today and its
// neighbors, last/this/next week|month|year, and "N units ago".
func relativeDate(joined string, words []string, now time.Time, loc *time.Location) (Value, bool) {
	switch joined {
	case "today":
		return dayRange(now, loc), true
	case "yesterday":
		return dayRange(now.AddDate(0, 0, -1), loc), true
	case "tomorrow":
		return dayRange(now.AddDate(0, 0, 1), loc), true
	case "this week":
		return weekRange(now, loc), true
	case "last week":
		return weekRange(now.AddDate(0, 0, -7), loc), true
	case "next week":
		return weekRange(now.AddDate(0, 0, 7), loc), true
	case "this month":
		return monthRange(now.Year(), now.Month(), loc), true
	case "last month":
		base := now.AddDate(0, -1, 0)
		return monthRange(base.Year(), base.Month(), loc), true
	case "next month":
		base := now.AddDate(0, 1, 0)
		return monthRange(base.Year(), base.Month(), loc), true
	case "this year":
		return yearRange(now.Year(), loc), true
	case "last year":
		return yearRange(now.Year()-1, loc), true
	case "next year":
		return yearRange(now.Year()+1, loc), true
	}

	if len(words) == 3 && words[2] == "ago" {
		n, err := strconv.Atoi(words[0])
		if err != nil || n < 0 {
			return Value{}, false
		}
		switch strings.TrimSuffix(words[1], "s") {
		case "year":
			return yearRange(now.AddDate(-n, 0, 0).Year(), loc), true
		case "month":
			base := now.AddDate(0, -n, 0)
			return monthRange(base.Year(), base.Month(), loc), true
		case "week":
			return weekRange(now.AddDate(0, 0, -7*n), loc), true
		case "day":
			return dayRange(now.AddDate(0, 0, -n), loc), true
		}
	}
	return Value{}, false
}

// wordyDate handles tokens with named parts: bare years, month names with
// optional year or day, weekday references, and month-name triples. The
// year-first pair also accepts a numeric month, so "2024-03" covers March.
func wordyDate(words []string, now time.Time, loc *time.Location) (Value, bool) {
	switch len(words) {
	case 1:
		if year, ok := parseYear(words[0]); ok {
			return yearRange(year, loc), true
		}
		if month, ok := monthNames[words[0]]; ok {
			// No year given: a month that has not started yet means the
			// most recent one.
			v := monthRange(now.Year(), month, loc)
			if v.Min.After(now) {
				v.Min = v.Min.AddDate(-1, 0, 0)
				v.Max = v.Max.AddDate(-1, 0, 0)
			}
			return v, true
		}
	case 2:
		first, second := words[0], words[1]
		if month, ok := monthNames[first]; ok {
			if year, ok := parseYear(second); ok {
				return monthRange(year, month, loc), true
			}
			if day, ok := parseDayNum(second); ok {
				return dayRange(time.Date(now.Year(), month, day, 0, 0, 0, 0, loc), loc), true
			}
		}
		if year, ok := parseYear(first); ok {
			if month, ok := parseMonthWord(second); ok {
				return monthRange(year, month, loc), true
			}
		}
		if day, ok := parseDayNum(first); ok {
			if month, ok := monthNames[second]; ok {
				return dayRange(time.Date(now.Year(), month, day, 0, 0, 0, 0, loc), loc), true
			}
		}
		if first == "last" || first == "this" || first == "next" {
			if weekday, ok := weekdayNames[second]; ok {
				return dayRange(weekdayRef(first, weekday, now), loc), true
			}
		}
	case 3:
		if year, ok := parseYear(words[0]); ok {
			if month, ok := parseMonthWord(words[1]); ok {
				if day, ok := parseDayNum(words[2]); ok {
					return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
				}
			}
		}
		if month, ok := monthNames[words[0]]; ok {
			if day, ok := parseDayNum(words[1]); ok {
				if year, ok := parseYear(words[2]); ok {
					return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
				}
			}
		}
		if day, ok := parseDayNum(words[0]); ok {
			if month, ok := monthNames[words[1]]; ok {
				if year, ok := parseYear(words[2]); ok {
					return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
				}
			}
		}
	}
	return Value{}, false
}

// numericDate handles all-numeric dates. M Y pairs are accepted with '/';
// Y M D triples with any delimiter; M D Y only with '/' or '-'; D M Y only
// with '.'. Year-first pairs like "2024-03" resolve earlier in wordyDate.
func numericDate(words []string, delim byte, loc *time.Location) (Value, bool) {
	if len(words) == 2 && delim == '/' {
		if month, ok := parseMonthNum(words[0]); ok {
			if year, ok := parseYear(words[1]); ok {
				return monthRange(year, month, loc), true
			}
		}
	}
	if len(words) != 3 {
		return Value{}, false
	}
	if year, ok := parseYear(words[0]); ok {
		if month, ok := parseMonthNum(words[1]); ok {
			if day, ok := parseDayNum(words[2]); ok {
				return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
			}
		}
	}
	if delim == '/' || delim == '-' {
		if month, ok := parseMonthNum(words[0]); ok {
			if day, ok := parseDayNum(words[1]); ok {
				if year, ok := parseYear(words[2]); ok {
					return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
				}
			}
		}
	}
	if delim == '.' {
		if day, ok := parseDayNum(words[0]); ok {
			if month, ok := parseMonthNum(words[1]); ok {
				if year, ok := parseYear(words[2]); ok {
					return dayRange(time.Date(year, month, day, 0, 0, 0, 0, loc), loc), true
				}
			}
		}
	}
	return Value{}, false
}

// weekdayRef resolves last/this/next <weekday> relative to now, with
// weeks starting on Sunday.
func weekdayRef(rel string, weekday time.Weekday, now time.Time) time.Time {
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	t := weekStart.AddDate(0, 0, int(weekday))
	switch rel {
	case "last":
		t = t.AddDate(0, 0, -7)
	case "next":
		t = t.AddDate(0, 0, 7)
	}
	return t
}

func yearRange(year int, loc *time.Location) Value {
	min := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Value{Kind: ValueTimeRange, Min: min, Max: min.AddDate(1, 0, 0)}
}

func monthRange(year int, month time.Month, loc *time.Location) Value {
	min := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Value{Kind: ValueTimeRange, Min: min, Max: min.AddDate(0, 1, 0)}
}

func weekRange(t time.Time, loc *time.Location) Value {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	min := day.AddDate(0, 0, -int(day.Weekday()))
	return Value{Kind: ValueTimeRange, Min: min, Max: min.AddDate(0, 0, 7)}
}

func dayRange(t time.Time, loc *time.Location) Value {
	min := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return Value{Kind: ValueTimeRange, Min: min, Max: min.AddDate(0, 0, 1)}
}

// parseYear accepts 4-digit years 1900 through 2100.
func parseYear(word string) (int, bool) {
	if len(word) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(word)
	if err != nil || year < 1900 || year > 2100 {
		return 0, false
	}
	return year, true
}

func parseMonthNum(word string) (time.Month, bool) {
	n, err := strconv.Atoi(word)
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return time.Month(n), true
}

// parseMonthWord accepts a month name or number.
func parseMonthWord(word string) (time.Month, bool) {
	if month, ok := monthNames[word]; ok {
		return month, true
	}
	return parseMonthNum(word)
}

func parseDayNum(word string) (int, bool) {
	n, err := strconv.Atoi(word)
	if err != nil || n < 1 || n > 31 {
		return 0, false
	}
	return n, true
}
