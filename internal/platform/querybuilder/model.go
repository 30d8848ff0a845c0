package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT statement from a struct's db tags.
// Fields tagged `db:"-"` are left out, which is how database-generated
// columns stay out of the statement. A non-empty conflictClause is
// appended verbatim after the value list.
func InsertModel(table string, model any, conflictClause string) (string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("insert model is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert model must be a struct, got %s", v.Kind())
	}

	columns := make([]string, 0, v.NumField())
	values := make([]any, 0, v.NumField())
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		column := strings.Split(field.Tag.Get("db"), ",")[0]
		if column == "" || column == "-" {
			continue
		}
		columns = append(columns, column)
		values = append(values, v.Field(i).Interface())
	}

	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert model has no db-tagged fields")
	}

	builder := InsertInto(table).Columns(columns...).Values(values...)
	if strings.TrimSpace(conflictClause) != "" {
		builder = builder.Suffix(conflictClause)
	}

	return builder.ToSQL()
}
