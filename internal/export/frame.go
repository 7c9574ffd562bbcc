// Package export renders the play-by-play stream and the aggregate views as
// typed tables, written out as CSV or Parquet. Columns keep their Go types
// in the Parquet schema; absent optional values become nulls rather than
// zeroes.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
)

// EmptyNetLabel fills goalie columns when no goalie was on the ice.
const EmptyNetLabel = "EMPTY NET"

// Kind is a column's value type.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// Column is one typed column with per-row null tracking.
type Column struct {
	Name   string
	Kind   Kind
	strs   []string
	ints   []int64
	floats []float64
	nulls  []bool
}

func (c *Column) appendNull() {
	switch c.Kind {
	case KindString:
		c.strs = append(c.strs, "")
	case KindInt:
		c.ints = append(c.ints, 0)
	case KindFloat:
		c.floats = append(c.floats, 0)
	}
	c.nulls = append(c.nulls, true)
}

// cell renders one value for CSV; nulls become empty cells.
func (c *Column) cell(row int) string {
	if c.nulls[row] {
		return ""
	}
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.ints[row], 10)
	case KindFloat:
		return strconv.FormatFloat(c.floats[row], 'g', -1, 64)
	default:
		return c.strs[row]
	}
}

// Frame is an ordered set of equal-length columns. Emitters fill it one row
// at a time: Next, then one setter call per column, in a fixed order.
type Frame struct {
	cols   []*Column
	byName map[string]*Column
	rows   int
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{byName: map[string]*Column{}}
}

// Rows returns the number of rows appended so far.
func (f *Frame) Rows() int { return f.rows }

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Next starts a new row. The first row defines the column set and order.
func (f *Frame) Next() { f.rows++ }

func (f *Frame) col(name string, kind Kind) *Column {
	if c, ok := f.byName[name]; ok {
		return c
	}
	c := &Column{Name: name, Kind: kind}
	f.cols = append(f.cols, c)
	f.byName[name] = c
	return c
}

// Str appends a string value; the empty string is stored as null.
func (f *Frame) Str(name, v string) {
	c := f.col(name, KindString)
	if v == "" {
		c.appendNull()
		return
	}
	c.strs = append(c.strs, v)
	c.nulls = append(c.nulls, false)
}

// Goalie appends a goalie identity, defaulting empty to EMPTY NET.
func (f *Frame) Goalie(name, v string) {
	if v == "" {
		v = EmptyNetLabel
	}
	f.Str(name, v)
}

// Int appends an integer value.
func (f *Frame) Int(name string, v int64) {
	c := f.col(name, KindInt)
	c.ints = append(c.ints, v)
	c.nulls = append(c.nulls, false)
}

// IntOrNull appends an integer, treating zero as absent. Used for optional
// identity columns like api_id.
func (f *Frame) IntOrNull(name string, v int64) {
	if v == 0 {
		f.col(name, KindInt).appendNull()
		return
	}
	f.Int(name, v)
}

// IntPtr appends an optional integer.
func (f *Frame) IntPtr(name string, v *int) {
	if v == nil {
		f.col(name, KindInt).appendNull()
		return
	}
	f.Int(name, int64(*v))
}

// Float appends a float value.
func (f *Frame) Float(name string, v float64) {
	c := f.col(name, KindFloat)
	c.floats = append(c.floats, v)
	c.nulls = append(c.nulls, false)
}

// FloatPtr appends an optional float.
func (f *Frame) FloatPtr(name string, v *float64) {
	if v == nil {
		f.col(name, KindFloat).appendNull()
		return
	}
	f.Float(name, *v)
}

// WriteCSV writes the frame with a header row. Nulls render as empty cells.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	row := make([]string, len(f.cols))
	for i := 0; i < f.rows; i++ {
		for j, c := range f.cols {
			row[j] = c.cell(i)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// schema builds the arrow schema matching the frame's columns.
func (f *Frame) schema() *arrow.Schema {
	fields := make([]arrow.Field, len(f.cols))
	for i, c := range f.cols {
		var dt arrow.DataType
		switch c.Kind {
		case KindInt:
			dt = arrow.PrimitiveTypes.Int64
		case KindFloat:
			dt = arrow.PrimitiveTypes.Float64
		default:
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: c.Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteParquet writes the frame as a snappy-compressed parquet file.
func (f *Frame) WriteParquet(w io.Writer) error {
	schema := f.schema()
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()

	for i, c := range f.cols {
		switch fb := b.Field(i).(type) {
		case *array.Int64Builder:
			for row := 0; row < f.rows; row++ {
				if c.nulls[row] {
					fb.AppendNull()
				} else {
					fb.Append(c.ints[row])
				}
			}
		case *array.Float64Builder:
			for row := 0; row < f.rows; row++ {
				if c.nulls[row] {
					fb.AppendNull()
				} else {
					fb.Append(c.floats[row])
				}
			}
		case *array.StringBuilder:
			for row := 0; row < f.rows; row++ {
				if c.nulls[row] {
					fb.AppendNull()
				} else {
					fb.Append(c.strs[row])
				}
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()
	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	chunk := int64(f.rows)
	if chunk < 1 {
		chunk = 1
	}
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	if err := pqarrow.WriteTable(tbl, w, chunk, props, pqarrow.DefaultWriterProps()); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}
