package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sqldriver/internal/value"
)

func TestParseMysqlTimeDate(t *testing.T) {
	got, err := ParseMysqlTime("2024-02-29", value.TimeDate)
	require.NoError(t, err)
	require.Equal(t, value.MysqlTime{Kind: value.TimeDate, Year: 2024, Month: 2, Day: 29}, got)
}

func TestParseMysqlTimeZeroDate(t *testing.T) {
	got, err := ParseMysqlTime("0000-00-00", value.TimeDate)
	require.NoError(t, err)
	require.True(t, got.IsZeroDate())
}

func TestParseMysqlTimeRejectsInvalidDay(t *testing.T) {
	_, err := ParseMysqlTime("2023-02-29", value.TimeDate)
	require.Error(t, err)
}

func TestParseMysqlTimeNegativeTime(t *testing.T) {
	got, err := ParseMysqlTime("-838:59:59", value.TimeTime)
	require.NoError(t, err)
	require.True(t, got.Negative)
	require.Equal(t, uint16(838), got.Hour)
}

func TestParseMysqlTimeRejectsOutOfRangeHour(t *testing.T) {
	_, err := ParseMysqlTime("839:00:00", value.TimeTime)
	require.Error(t, err)
}

func TestParseMysqlTimeDateTimeWithFraction(t *testing.T) {
	got, err := ParseMysqlTime("2024-06-15 10:30:00.125000", value.TimeDateTime)
	require.NoError(t, err)
	require.Equal(t, uint32(125000), got.Microsecond)
}

func TestFormatMysqlTimeRoundTrip(t *testing.T) {
	in := "2024-06-15 10:30:00.125"
	parsed, err := ParseMysqlTime(in, value.TimeDateTime)
	require.NoError(t, err)
	require.Equal(t, "2024-06-15 10:30:00.125", FormatMysqlTime(parsed))
}

func TestFormatMysqlTimeStripsTrailingZeroMicros(t *testing.T) {
	got, err := ParseMysqlTime("2024-06-15 10:30:00", value.TimeDateTime)
	require.NoError(t, err)
	require.Equal(t, "2024-06-15 10:30:00", FormatMysqlTime(got))
}

func TestFormatMysqlTimeStripsPartialTrailingZeroMicros(t *testing.T) {
	got := value.MysqlTime{Kind: value.TimeDateTime, Year: 2024, Month: 3, Day: 1, Hour: 12, Minute: 30, Second: 45, Microsecond: 250000}
	require.Equal(t, "2024-03-01 12:30:45.25", FormatMysqlTime(got))
}

func TestToGoTimeRejectsZeroDate(t *testing.T) {
	zero := value.MysqlTime{Kind: value.TimeDate}
	_, err := ToGoTime(zero)
	require.Error(t, err)
}

func TestFromGoTimeToGoTimeRoundTrip(t *testing.T) {
	mt, err := ParseMysqlTime("2024-06-15 10:30:45.000001", value.TimeDateTime)
	require.NoError(t, err)
	tm, err := ToGoTime(mt)
	require.NoError(t, err)
	back := FromGoTime(tm)
	require.Equal(t, mt, back)
}

func TestChronoTimeRoundTrip(t *testing.T) {
	mt, err := ParseMysqlTime("12:34:56.500000", value.TimeTime)
	require.NoError(t, err)
	ct, err := ToChronoTime(mt)
	require.NoError(t, err)
	back, err := FromChronoTime(ct)
	require.NoError(t, err)
	require.Equal(t, mt, back)
}

func TestFromChronoTimeRejectsOutOfRange(t *testing.T) {
	_, err := FromChronoTime(value.ChronoTime(900 * 60 * 60 * 1e9))
	require.Error(t, err)
}
