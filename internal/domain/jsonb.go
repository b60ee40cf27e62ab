package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONBStrings is a custom type for handling JSONB string lists in
// PostgreSQL. It implements sql.Scanner and driver.Valuer to convert between
// Go's []string and PostgreSQL's JSONB type.
type JSONBStrings []string

// Scan implements the sql.Scanner interface.
func (j *JSONBStrings) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for JSONBStrings")
	}

	if len(data) == 0 {
		*j = JSONBStrings{}
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements the driver.Valuer interface.
func (j JSONBStrings) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(j)
}
