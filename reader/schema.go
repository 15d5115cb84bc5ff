package reader

import (
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/csvframe/frame"
)

// SchemaInfo describes one column of a source.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type,omitempty"`
	LogicalType  string `json:"logical_type,omitempty"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo lists the leaf columns of a Parquet file. Nested
// fields use dot notation, e.g. "address.street".
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	pr, err := NewParquetReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = pr.Close() }()

	return ParquetSchemaInfo(pr.Schema()), nil
}

// ParquetSchemaInfo flattens a Parquet schema into leaf column infos.
func ParquetSchemaInfo(schema *parquet.Schema) []SchemaInfo {
	var infos []SchemaInfo
	for _, field := range schema.Fields() {
		infos = append(infos, leafInfos(field, "", false)...)
	}
	return infos
}

// TableSchemaInfo describes the columns of a loaded table. The type is the
// kind shared by every non-null value ("int", "float", "text"), "mixed"
// when kinds differ and "null" when the column holds no values. Ints and
// floats together count as "float".
func TableSchemaInfo(t *frame.Table) []SchemaInfo {
	infos := make([]SchemaInfo, 0, t.NumColumns())
	for _, name := range t.Columns() {
		values, _ := t.Column(name)

		kinds := map[frame.Kind]bool{}
		hasNull := false
		for _, v := range values {
			k := frame.KindOf(v)
			if k == frame.KindNull {
				hasNull = true
				continue
			}
			kinds[k] = true
		}
		if kinds[frame.KindInt] && kinds[frame.KindFloat] {
			delete(kinds, frame.KindInt)
		}

		typ := frame.KindNull.String()
		switch len(kinds) {
		case 0:
		case 1:
			for k := range kinds {
				typ = k.String()
			}
		default:
			typ = "mixed"
		}

		infos = append(infos, SchemaInfo{
			Name:     name,
			Type:     strings.ToUpper(typ),
			Required: !hasNull,
			Optional: hasNull,
		})
	}
	return infos
}

// leafInfos walks field, emitting one entry per leaf. A repeated group
// marks every leaf beneath it as repeated.
func leafInfos(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, leafInfos(child, name, repeated)...)
		}
		return infos
	}

	return []SchemaInfo{{
		Name:         name,
		Type:         friendlyType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     repeated,
	}}
}

func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

func logicalType(field parquet.Field) string {
	if field.Type() == nil || field.Type().LogicalType() == nil {
		return ""
	}
	return field.Type().LogicalType().String()
}

// friendlyType maps a Parquet field onto the type names used for tables,
// so -schema output reads the same for CSV and Parquet sources.
func friendlyType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch lt := logicalType(field); {
	case strings.HasPrefix(lt, "STRING"), strings.HasPrefix(lt, "UTF8"), strings.HasPrefix(lt, "ENUM"), strings.HasPrefix(lt, "UUID"), strings.HasPrefix(lt, "JSON"):
		return "TEXT"
	case strings.HasPrefix(lt, "DATE"), strings.HasPrefix(lt, "TIME"):
		return "TEXT"
	case strings.HasPrefix(lt, "DECIMAL"):
		return "FLOAT"
	}

	switch field.Type().Kind() {
	case parquet.Int32, parquet.Int64:
		return "INT"
	case parquet.Float, parquet.Double:
		return "FLOAT"
	case parquet.Boolean, parquet.ByteArray, parquet.FixedLenByteArray, parquet.Int96:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}
