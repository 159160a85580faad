package custom

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// UnixTime represents a point in time that is persisted as seconds since the epoch.
type UnixTime time.Time

// NewUnixTime truncates t to the second and wraps it.
func NewUnixTime(t time.Time) UnixTime {
	return UnixTime(time.Unix(t.Unix(), 0).UTC())
}

// Time returns the wrapped time.
func (u UnixTime) Time() time.Time {
	return time.Time(u)
}

// IsZero reports whether the time is unset.
func (u UnixTime) IsZero() bool {
	return time.Time(u).IsZero()
}

// Unix returns the seconds since the epoch, or 0 when unset.
func (u UnixTime) Unix() int64 {
	if u.IsZero() {
		return 0
	}
	return time.Time(u).Unix()
}

// MarshalJSON implements the json.Marshaler interface.
func (u UnixTime) MarshalJSON() ([]byte, error) {
	if u.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(u.Unix(), 10)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *UnixTime) UnmarshalJSON(text []byte) error {
	if string(text) == "null" {
		*u = UnixTime{}
		return nil
	}

	var secs int64
	if err := json.Unmarshal(text, &secs); err != nil {
		return fmt.Errorf("invalid unix time %s: %w", text, err)
	}
	*u = UnixTime(time.Unix(secs, 0).UTC())
	return nil
}

// MarshalBSONValue implements the bson.ValueMarshaler interface.
func (u UnixTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if u.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(u.Unix())
}

// UnmarshalBSONValue implements the bson.ValueUnmarshaler interface.
func (u *UnixTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*u = UnixTime{}
		return nil
	case bson.TypeInt64:
		var secs int64
		if err := bson.UnmarshalValue(t, data, &secs); err != nil {
			return fmt.Errorf("invalid unix time: %w", err)
		}
		*u = UnixTime(time.Unix(secs, 0).UTC())
		return nil
	case bson.TypeInt32:
		var secs int32
		if err := bson.UnmarshalValue(t, data, &secs); err != nil {
			return fmt.Errorf("invalid unix time: %w", err)
		}
		*u = UnixTime(time.Unix(int64(secs), 0).UTC())
		return nil
	default:
		return fmt.Errorf("invalid bson type %s for unix time", t)
	}
}

// Value implements the driver.Valuer interface.
func (u UnixTime) Value() (driver.Value, error) {
	if u.IsZero() {
		return nil, nil
	}
	return u.Unix(), nil
}

// Scan implements the sql.Scanner interface.
func (u *UnixTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*u = UnixTime{}
	case int64:
		*u = UnixTime(time.Unix(v, 0).UTC())
	case time.Time:
		*u = NewUnixTime(v)
	default:
		return fmt.Errorf("invalid scan, type %T not supported for %T", src, u)
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (u UnixTime) String() string {
	if u.IsZero() {
		return ""
	}
	return time.Time(u).Format(time.RFC3339)
}
