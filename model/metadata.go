package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/siherrmann/wikigrapher/helper"
)

// Metadata is a JSONB column.
type Metadata map[string]interface{}

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = Metadata{}
		return nil
	case Metadata:
		*m = v
		return nil
	case string:
		return m.unmarshal([]byte(v))
	case []byte:
		return m.unmarshal(v)
	default:
		return helper.NewError("metadata scan", fmt.Errorf("unsupported type %T", value))
	}
}

func (m *Metadata) unmarshal(b []byte) error {
	out := Metadata{}
	if err := json.Unmarshal(b, &out); err != nil {
		return helper.NewError("metadata unmarshal", err)
	}
	*m = out
	return nil
}
