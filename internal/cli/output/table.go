package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// TableFormatter formats data as an aligned text table.
//
// Slices of structs become one row per element with a column per field;
// a single struct or a map becomes a two-column key/value table. Struct
// fields tagged `table:"-"` or `json:"-"` are skipped, and `table:"wide"` fields only
// show with Wide. Anything else falls back to JSON.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := toTable(data, f.Wide)
	if err != nil {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

func toTable(data any, wide bool) (*Table, error) {
	v := reflect.Indirect(reflect.ValueOf(data))
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return sliceToTable(v, wide)
	case reflect.Map:
		return mapToTable(v), nil
	case reflect.Struct:
		return structToTable(v, wide), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

type column struct {
	index  int
	header string
}

func columns(t reflect.Type, wide bool) []column {
	var cols []column
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" || field.Tag.Get("json") == "-" || (tag == "wide" && !wide) {
			continue
		}
		cols = append(cols, column{index: i, header: fieldName(field)})
	}
	return cols
}

func fieldName(field reflect.StructField) string {
	if name, _, _ := strings.Cut(field.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return toSnakeCase(field.Name)
}

func sliceToTable(v reflect.Value, wide bool) (*Table, error) {
	elem := v.Type().Elem()
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if elem.Kind() != reflect.Struct {
		table := &Table{Headers: []string{"VALUE"}}
		for i := range v.Len() {
			table.AddRow(formatValue(v.Index(i)))
		}
		return table, nil
	}

	cols := columns(elem, wide)
	table := &Table{}
	for _, c := range cols {
		table.Headers = append(table.Headers, strings.ToUpper(c.header))
	}
	for i := range v.Len() {
		row := reflect.Indirect(v.Index(i))
		if !row.IsValid() {
			continue
		}
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = formatValue(row.Field(c.index))
		}
		table.AddRow(cells...)
	}
	return table, nil
}

// mapToTable renders a map as KEY/VALUE rows sorted by key.
func mapToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(formatValue(iter.Key()), formatValue(iter.Value()))
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i][0] < table.Rows[j][0] })
	return table
}

func structToTable(v reflect.Value, wide bool) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}
	for _, c := range columns(v.Type(), wide) {
		table.AddRow(c.header, formatValue(v.Field(c.index)))
	}
	return table
}

var timeType = reflect.TypeOf(time.Time{})

// formatValue renders one cell. Empty strings, slices and maps show as "-".
func formatValue(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return "-"
	}

	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.DateTime)
	}
	if v.Type() == reflect.TypeOf(time.Duration(0)) {
		return time.Duration(v.Int()).Round(time.Millisecond).String()
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		return fmt.Sprintf("%+v", v.Interface())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Table is pre-built tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without headers.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
