package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// DishList stores a meal's dish snapshots in a single JSON column
type DishList []Dish

// Value encodes the list through datatypes.JSON. A nil list is stored as [].
func (d DishList) Value() (driver.Value, error) {
	dishes := []Dish(d)
	if dishes == nil {
		dishes = []Dish{}
	}
	raw, err := json.Marshal(dishes)
	if err != nil {
		return nil, fmt.Errorf("encode dish list: %w", err)
	}
	return datatypes.JSON(raw).Value()
}

// Scan decodes the JSON column back into dishes
func (d *DishList) Scan(value interface{}) error {
	if value == nil {
		*d = DishList{}
		return nil
	}

	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return fmt.Errorf("scan dish list: %w", err)
	}
	if len(raw) == 0 {
		*d = DishList{}
		return nil
	}

	var dishes []Dish
	if err := json.Unmarshal(raw, &dishes); err != nil {
		return fmt.Errorf("decode dish list: %w", err)
	}
	*d = dishes
	return nil
}

// GormDBDataType picks a JSON-capable column type per driver.
// MSSQL has no json type, so it gets NVARCHAR(MAX).
func (DishList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}
