package fquuid

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText implements the encoding.TextMarshaler interface
func (u UUID) MarshalText() ([]byte, error) {
	return u.AppendText(make([]byte, 0, CanonicalLen))
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (u *UUID) UnmarshalText(data []byte) error {
	id, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (u UUID) MarshalBinary() ([]byte, error) {
	return u.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// data must be exactly 16 bytes.
func (u *UUID) UnmarshalBinary(data []byte) error {
	id, err := FromBytes(data)
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// Scan implements the sql.Scanner interface for database compatibility.
// It accepts canonical text, or 16 raw bytes as stored in BINARY(16) and
// BLOB columns.
func (u *UUID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		id, err := Parse(src)
		if err != nil {
			return err
		}
		*u = id
		return nil
	case []byte:
		if len(src) == 0 {
			return nil
		}
		if len(src) == Size {
			id, err := Load(src)
			if err != nil {
				return err
			}
			*u = id
			return nil
		}
		id, err := ParseBytes(src)
		if err != nil {
			return err
		}
		*u = id
		return nil
	default:
		return fmt.Errorf("fquuid: cannot scan type %T into UUID", src)
	}
}

// Value implements the driver.Valuer interface for database compatibility
func (u UUID) Value() (driver.Value, error) {
	return u.String(), nil
}

// NullUUID represents a UUID that may be NULL. It implements sql.Scanner
// and driver.Valuer like sql.NullString.
type NullUUID struct {
	UUID  UUID
	Valid bool // Valid is true if UUID is not NULL
}

// Scan implements the sql.Scanner interface
func (n *NullUUID) Scan(src interface{}) error {
	if src == nil {
		n.UUID, n.Valid = Nil, false
		return nil
	}
	if err := n.UUID.Scan(src); err != nil {
		n.Valid = false
		return err
	}
	n.Valid = true
	return nil
}

// Value implements the driver.Valuer interface
func (n NullUUID) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.UUID.Value()
}
