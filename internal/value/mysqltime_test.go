package value

import "testing"

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  uint16
		month uint8
		want  uint8
	}{
		{2024, 2, 29}, // leap year
		{2023, 2, 28},
		{1900, 2, 28}, // divisible by 100 but not 400
		{2000, 2, 29}, // divisible by 400
		{2024, 4, 30},
		{2024, 1, 31},
		{2024, 13, 0}, // invalid month
	}
	for _, c := range cases {
		if got := DaysInMonth(c.year, c.month); got != c.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", c.year, c.month, got, c.want)
		}
	}
}

func TestMysqlTimeIsZeroDate(t *testing.T) {
	zero := MysqlTime{Kind: TimeDate}
	if !zero.IsZeroDate() {
		t.Fatal("expected zero-date MysqlTime to report IsZeroDate")
	}
	notZero := MysqlTime{Kind: TimeDate, Year: 2024, Month: 1, Day: 1}
	if notZero.IsZeroDate() {
		t.Fatal("non-zero date incorrectly reported as zero-date")
	}
	timeKind := MysqlTime{Kind: TimeTime}
	if timeKind.IsZeroDate() {
		t.Fatal("TimeTime kind must never report IsZeroDate")
	}
}

func TestChronoDateValid(t *testing.T) {
	if !(ChronoDate{Year: 2024, Month: 2, Day: 29}).Valid() {
		t.Fatal("2024-02-29 should be valid (leap year)")
	}
	if (ChronoDate{Year: 2023, Month: 2, Day: 29}).Valid() {
		t.Fatal("2023-02-29 should be invalid (not a leap year)")
	}
	if (ChronoDate{Year: 2024, Month: 13, Day: 1}).Valid() {
		t.Fatal("month 13 should be invalid")
	}
	if (ChronoDate{Year: 2024, Month: 0, Day: 1}).Valid() {
		t.Fatal("month 0 should be invalid")
	}
}
