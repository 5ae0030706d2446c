package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DateLayout формат календарной даты в отчете
const DateLayout = "2006-01-02"

// Date календарная дата без времени и часового пояса поверх civil.Date.
// Нулевое значение означает, что дата не задана.
type Date struct {
	d civil.Date
}

// NewDate создает дату из года, месяца и дня. Выход за пределы месяца нормализуется.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf возвращает календарную дату момента времени в его собственном часовом поясе
func DateOf(t time.Time) Date {
	return Date{d: civil.DateOf(t)}
}

// FromCivil оборачивает civil.Date. Некорректная дата считается незаданной.
func FromCivil(d civil.Date) Date {
	if !d.IsValid() {
		return Date{}
	}
	return Date{d: d}
}

// ParseDate разбирает "YYYY-MM-DD" либо метку времени RFC3339 (берется дата в ее поясе).
// Пустая строка дает нулевую дату без ошибки.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if d, err := civil.ParseDate(s); err == nil {
		return Date{d: d}, nil
	}
	// Сборщик пишет метки с суффиксом Z либо со смещением
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		var dt civil.DateTime
		dt, err = civil.ParseDateTime(s)
		t = dt.In(time.UTC)
	}
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// MustParseDate как ParseDate, но паникует на ошибке
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero сообщает, что дата не задана
func (d Date) IsZero() bool {
	return d.d == civil.Date{}
}

// Civil возвращает дату как civil.Date
func (d Date) Civil() civil.Date {
	return d.d
}

// Compare возвращает -1, 0 или +1
func (d Date) Compare(o Date) int {
	switch {
	case d.Before(o):
		return -1
	case d.After(o):
		return 1
	default:
		return 0
	}
}

// Equal сообщает, что даты совпадают
func (d Date) Equal(o Date) bool {
	return d.d == o.d
}

// Before сообщает, что d строго раньше o
func (d Date) Before(o Date) bool {
	return d.d.Before(o.d)
}

// After сообщает, что d строго позже o
func (d Date) After(o Date) bool {
	return d.d.After(o.d)
}

// Within проверяет попадание в отрезок [start, end] включительно
func (d Date) Within(start, end Date) bool {
	return !d.Before(start) && !d.After(end)
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return Date{d: d.d.AddDays(n)}
}

// DaysUntil число дней от d до o (отрицательно, если o раньше)
func (d Date) DaysUntil(o Date) int {
	return o.d.DaysSince(d.d)
}

// Time возвращает полночь UTC этой даты
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return d.d.In(time.UTC)
}

// String возвращает дату в формате YYYY-MM-DD, для нулевой даты пустую строку
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.d.String()
}

// MarshalJSON пишет null для незаданной даты
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	text, err := d.d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON принимает null, пустую строку, дату или метку времени
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
