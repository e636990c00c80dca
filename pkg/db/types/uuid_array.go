package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UUIDArray persists the ids an outfit references as a Postgres array
// literal. SQLite keeps the same literal as plain text, so one Scan/Value
// pair serves both drivers.
type UUIDArray []uuid.UUID

func (a UUIDArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	b.WriteByte('}')
	return b.String(), nil
}

func (a *UUIDArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = UUIDArray{}
		return nil
	case string:
		return a.decode(v)
	case []byte:
		return a.decode(string(v))
	default:
		return fmt.Errorf("UUIDArray: unsupported Scan type %T", src)
	}
}

func (a *UUIDArray) decode(literal string) error {
	body := strings.TrimSpace(literal)
	body = strings.TrimPrefix(body, "{")
	body = strings.TrimSuffix(body, "}")
	if strings.TrimSpace(body) == "" {
		*a = UUIDArray{}
		return nil
	}

	fields := strings.Split(body, ",")
	ids := make(UUIDArray, 0, len(fields))
	for _, field := range fields {
		field = strings.Trim(strings.TrimSpace(field), `"`)
		id, err := uuid.Parse(field)
		if err != nil {
			return fmt.Errorf("UUIDArray: parse %q: %w", field, err)
		}
		ids = append(ids, id)
	}
	*a = ids
	return nil
}
