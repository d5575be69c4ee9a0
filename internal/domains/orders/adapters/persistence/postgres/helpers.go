package postgres

import (
	"encoding/json"

	"gorm.io/gorm/clause"
)

func forUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// jsonValue marshals a value for a map-based Updates call, which bypasses
// GORM's field serializers.
func jsonValue(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
