package mysql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sqldriver/internal/value"
)

// ParseMysqlTime parses the canonical textual encodings MySQL uses for
// DATE, TIME, DATETIME/TIMESTAMP and YEAR columns (SPEC_FULL.md §4.1
// "MysqlTime parsing/formatting"). kind tells the parser which grammar to
// expect; TimeNone lets it infer DATE vs DATETIME vs TIME from the input
// shape, which is what the text protocol requires since the wire only
// tells us the declared column type, not which of these three grammars a
// DATE-family column actually used on this row.
func ParseMysqlTime(s string, kind value.TimeKind) (value.MysqlTime, error) {
	s = strings.TrimSpace(s)
	if kind == value.TimeNone {
		kind = inferTimeKind(s)
	}

	switch kind {
	case value.TimeTime:
		return parseTimeOfDay(s)
	case value.TimeDate:
		return parseDateOnly(s)
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		return parseDateTime(s, kind)
	default:
		return value.MysqlTime{}, fmt.Errorf("mysql: parse MysqlTime: unsupported kind %v", kind)
	}
}

func inferTimeKind(s string) value.TimeKind {
	if strings.Contains(s, " ") || (strings.Count(s, "-") == 2 && strings.Contains(s, ":")) {
		return value.TimeDateTime
	}
	if strings.Contains(s, "-") {
		return value.TimeDate
	}
	if strings.Contains(s, ":") || strings.HasPrefix(s, "-") {
		return value.TimeTime
	}
	return value.TimeDate
}

func parseDateOnly(s string) (value.MysqlTime, error) {
	parts := strings.SplitN(s, "-", 3)
	if len(parts) != 3 {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse DATE %q: expected YYYY-MM-DD", s)
	}
	year, month, day, err := parseYMD(parts)
	if err != nil {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse DATE %q: %w", s, err)
	}
	return value.MysqlTime{Kind: value.TimeDate, Year: year, Month: month, Day: day}, nil
}

func parseYMD(parts []string) (year uint16, month, day uint8, err error) {
	y, err := strconv.Atoi(parts[0])
	if err != nil || y < 0 || y > 9999 {
		return 0, 0, 0, fmt.Errorf("invalid year %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month %q", parts[1])
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 0 || d > 31 {
		return 0, 0, 0, fmt.Errorf("invalid day %q", parts[2])
	}
	if y != 0 || m != 0 || d != 0 {
		if m == 0 || d == 0 {
			return 0, 0, 0, fmt.Errorf("partial zero date %d-%d-%d not allowed", y, m, d)
		}
		if d > int(value.DaysInMonth(uint16(y), uint8(m))) {
			return 0, 0, 0, fmt.Errorf("day %d out of range for %d-%d", d, y, m)
		}
	}
	return uint16(y), uint8(m), uint8(d), nil
}

func parseTimeOfDay(s string) (value.MysqlTime, error) {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var frac string
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac = s[i+1:]
		s = s[:i]
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse TIME %q: expected [-]HH:MM:SS[.ffffff]", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	sec, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse TIME %q: non-numeric field", s)
	}
	if h > value.MaxTimeHours || m > 59 || sec > 59 {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse TIME %q: out of range", s)
	}
	micro, err := parseMicroseconds(frac)
	if err != nil {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse TIME %q: %w", s, err)
	}
	return value.MysqlTime{
		Kind: value.TimeTime, Hour: uint16(h), Minute: uint8(m), Second: uint8(sec),
		Microsecond: micro, Negative: neg,
	}, nil
}

func parseDateTime(s string, kind value.TimeKind) (value.MysqlTime, error) {
	sp := strings.SplitN(s, " ", 2)
	if len(sp) != 2 {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse DATETIME %q: expected YYYY-MM-DD HH:MM:SS[.ffffff]", s)
	}
	datePart, err := parseDateOnly(sp[0])
	if err != nil {
		return value.MysqlTime{}, err
	}
	timePart, err := parseTimeOfDay(sp[1])
	if err != nil {
		return value.MysqlTime{}, err
	}
	if timePart.Negative || timePart.Hour > 23 {
		return value.MysqlTime{}, fmt.Errorf("mysql: parse DATETIME %q: time-of-day out of DATETIME range", s)
	}
	return value.MysqlTime{
		Kind: kind, Year: datePart.Year, Month: datePart.Month, Day: datePart.Day,
		Hour: timePart.Hour, Minute: timePart.Minute, Second: timePart.Second,
		Microsecond: timePart.Microsecond,
	}, nil
}

func parseMicroseconds(frac string) (uint32, error) {
	if frac == "" {
		return 0, nil
	}
	for len(frac) < 6 {
		frac += "0"
	}
	frac = frac[:6]
	v, err := strconv.Atoi(frac)
	if err != nil || v < 0 || v > 999999 {
		return 0, fmt.Errorf("invalid fractional seconds %q", frac)
	}
	return uint32(v), nil
}

// FormatMysqlTime renders t in the canonical textual form MySQL itself
// emits: zero-date as "0000-00-00", trailing zero microseconds stripped.
func FormatMysqlTime(t value.MysqlTime) string {
	switch t.Kind {
	case value.TimeDate:
		return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, t.Day)
	case value.TimeTime:
		sign := ""
		if t.Negative {
			sign = "-"
		}
		base := fmt.Sprintf("%s%02d:%02d:%02d", sign, t.Hour, t.Minute, t.Second)
		return appendMicros(base, t.Microsecond)
	case value.TimeDateTime, value.TimeDateTimeWithZone:
		base := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
		return appendMicros(base, t.Microsecond)
	default:
		return ""
	}
}

func appendMicros(base string, micros uint32) string {
	if micros == 0 {
		return base
	}
	frac := strings.TrimRight(fmt.Sprintf("%06d", micros), "0")
	return fmt.Sprintf("%s.%s", base, frac)
}

// ToGoTime converts t (DATETIME/TIMESTAMP/DATE) to a UTC time.Time. It
// rejects the zero-date sentinel and TIME-kind values, which have no
// faithful time.Time representation.
func ToGoTime(t value.MysqlTime) (time.Time, error) {
	if t.Kind != value.TimeDate && t.Kind != value.TimeDateTime && t.Kind != value.TimeDateTimeWithZone {
		return time.Time{}, fmt.Errorf("mysql: ToGoTime: kind %v has no time.Time representation", t.Kind)
	}
	if t.IsZeroDate() {
		return time.Time{}, fmt.Errorf("mysql: ToGoTime: zero-date has no time.Time representation")
	}
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), int(t.Microsecond)*1000, time.UTC), nil
}

// FromGoTime converts a UTC-normalized time.Time to a DATETIME MysqlTime.
func FromGoTime(tm time.Time) value.MysqlTime {
	tm = tm.UTC()
	return value.MysqlTime{
		Kind: value.TimeDateTime,
		Year: uint16(tm.Year()), Month: uint8(tm.Month()), Day: uint8(tm.Day()),
		Hour: uint16(tm.Hour()), Minute: uint8(tm.Minute()), Second: uint8(tm.Second()),
		Microsecond: uint32(tm.Nanosecond() / 1000),
	}
}

// ToChronoDate converts a DATE-kind MysqlTime to a value.ChronoDate,
// rejecting the zero-date sentinel.
func ToChronoDate(t value.MysqlTime) (value.ChronoDate, error) {
	if t.Kind != value.TimeDate {
		return value.ChronoDate{}, fmt.Errorf("mysql: ToChronoDate: kind %v is not DATE", t.Kind)
	}
	if t.IsZeroDate() {
		return value.ChronoDate{}, fmt.Errorf("mysql: ToChronoDate: zero-date cannot convert")
	}
	d := value.ChronoDate{Year: int(t.Year), Month: int(t.Month), Day: int(t.Day)}
	if !d.Valid() {
		return value.ChronoDate{}, fmt.Errorf("mysql: ToChronoDate: %04d-%02d-%02d is not a valid calendar date", t.Year, t.Month, t.Day)
	}
	return d, nil
}

// FromChronoDate converts a calendar date to a DATE-kind MysqlTime.
func FromChronoDate(d value.ChronoDate) value.MysqlTime {
	return value.MysqlTime{Kind: value.TimeDate, Year: uint16(d.Year), Month: uint8(d.Month), Day: uint8(d.Day)}
}

// ToChronoTime converts a TIME-kind MysqlTime to a signed duration since
// midnight, clamped to MySQL's |h| <= 838 TIME range by construction.
func ToChronoTime(t value.MysqlTime) (value.ChronoTime, error) {
	if t.Kind != value.TimeTime {
		return 0, fmt.Errorf("mysql: ToChronoTime: kind %v is not TIME", t.Kind)
	}
	d := time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second +
		time.Duration(t.Microsecond)*time.Microsecond
	if t.Negative {
		d = -d
	}
	return value.ChronoTime(d), nil
}

// FromChronoTime converts a signed duration since midnight to a TIME-kind
// MysqlTime, returning an error if the magnitude exceeds MaxTimeHours.
func FromChronoTime(ct value.ChronoTime) (value.MysqlTime, error) {
	d := time.Duration(ct)
	neg := d < 0
	if neg {
		d = -d
	}
	hours := d / time.Hour
	if hours > value.MaxTimeHours {
		return value.MysqlTime{}, fmt.Errorf("mysql: FromChronoTime: %v exceeds MySQL TIME range (|h|<=%d)", time.Duration(ct), value.MaxTimeHours)
	}
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond
	return value.MysqlTime{
		Kind: value.TimeTime, Hour: uint16(hours), Minute: uint8(minutes), Second: uint8(seconds),
		Microsecond: uint32(micros), Negative: neg,
	}, nil
}
