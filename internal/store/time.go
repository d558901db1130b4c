package store

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timeLayout is fixed width so that text comparison orders like time, which
// keeps ORDER BY created_at correct on every dialect.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var timeNow = time.Now

// timestamp stores a time as UTC text. SQLite has no datetime type and the
// same column type is used on every dialect.
type timestamp time.Time

func (t timestamp) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(timeLayout), nil
}

func (t *timestamp) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = timestamp(time.Time{})
		return nil
	case time.Time:
		*t = timestamp(v.UTC())
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("store: cannot scan %T into timestamp", src)
	}

	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("store: parse time %q: %w", s, err)
	}
	*t = timestamp(parsed.UTC())
	return nil
}

func (t timestamp) Time() time.Time { return time.Time(t) }
