package model

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout 所有 JSON 與 query string 的時間格式
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime 包裝 time.Time，序列化為 "yyyy-MM-dd HH:mm:ss"
type DateTime time.Time

func NewDateTime(t time.Time) DateTime {
	return DateTime(t)
}

func (d DateTime) Time() time.Time {
	return time.Time(d)
}

func (d DateTime) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d DateTime) String() string {
	return time.Time(d).Format(DateTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("parse datetime %q: %w", s, err)
	}
	*d = DateTime(t)
	return nil
}

// ParseDateTime 解析 query 參數中的時間
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}
