package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// naToken is the cell text gota reads as a missing element
const naToken = "NaN"

// ColumnKind identifies the value type stored in a Column
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindFloat
	KindInt
)

// String returns a readable kind name
func (k ColumnKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func kindOf(t series.Type) ColumnKind {
	switch t {
	case series.Float:
		return KindFloat
	case series.Int:
		return KindInt
	default:
		return KindString
	}
}

// Column is a named, typed and immutable gota series.
// Missing floats read as NaN, missing strings as "" and missing ints as unset.
type Column struct {
	s series.Series
}

// NewStringColumn creates a string column from a copy of values
func NewStringColumn(name string, values []string) *Column {
	return &Column{s: series.New(append([]string(nil), values...), series.String, name)}
}

// NewFloatColumn creates a float column from a copy of values
func NewFloatColumn(name string, values []float64) *Column {
	return &Column{s: series.New(append([]float64(nil), values...), series.Float, name)}
}

// NewIntColumn creates an int column. A nil present mask marks every cell as set.
func NewIntColumn(name string, values []int, present []bool) *Column {
	cells := make([]string, len(values))
	for i, v := range values {
		if present == nil || (i < len(present) && present[i]) {
			cells[i] = strconv.Itoa(v)
		} else {
			cells[i] = naToken
		}
	}
	return &Column{s: series.New(cells, series.Int, name)}
}

// Name returns the column name
func (c *Column) Name() string { return c.s.Name }

// Kind returns the column kind
func (c *Column) Kind() ColumnKind { return kindOf(c.s.Type()) }

// Len returns the number of cells
func (c *Column) Len() int { return c.s.Len() }

// Renamed returns the same cells under another name. Elements are shared,
// which is safe because columns are never written after construction.
func (c *Column) Renamed(name string) *Column {
	s := c.s
	s.Name = name
	return &Column{s: s}
}

// String returns cell i of a string column, or its textual form otherwise
func (c *Column) String(i int) string {
	if c.Kind() != KindString {
		return c.Format(i)
	}
	e := c.s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}

// Float returns cell i as float64, NaN when missing
func (c *Column) Float(i int) float64 {
	if c.Kind() == KindString {
		v, err := parseFloatCell(c.String(i))
		if err != nil {
			return math.NaN()
		}
		return v
	}
	e := c.s.Elem(i)
	if e.IsNA() {
		return math.NaN()
	}
	return e.Float()
}

// Int returns cell i of an int column and whether it is set
func (c *Column) Int(i int) (int, bool) {
	if c.Kind() != KindInt {
		return 0, false
	}
	e := c.s.Elem(i)
	if e.IsNA() {
		return 0, false
	}
	v, err := e.Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsMissing reports whether cell i holds no value
func (c *Column) IsMissing(i int) bool {
	switch c.Kind() {
	case KindFloat:
		return math.IsNaN(c.Float(i))
	case KindInt:
		_, ok := c.Int(i)
		return !ok
	default:
		return c.String(i) == ""
	}
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Strings returns a copy of the cells as text
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.String(i)
	}
	return out
}

// Floats returns a copy of the cells as float64
func (c *Column) Floats() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		out[i] = c.Float(i)
	}
	return out
}

// Format renders cell i for a text file. Missing cells render as "".
// Floats use the shortest representation that parses back to the same value.
func (c *Column) Format(i int) string {
	switch c.Kind() {
	case KindFloat:
		v := c.Float(i)
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case KindInt:
		v, ok := c.Int(i)
		if !ok {
			return ""
		}
		return strconv.Itoa(v)
	default:
		return c.String(i)
	}
}

// empty returns a column of the same name and kind without cells
func (c *Column) empty() series.Series {
	switch c.Kind() {
	case KindFloat:
		return series.New([]float64{}, series.Float, c.Name())
	case KindInt:
		return series.New([]string{}, series.Int, c.Name())
	default:
		return series.New([]string{}, series.String, c.Name())
	}
}

// ToFloat converts a string column into a float column. Blank cells become NaN.
func (c *Column) ToFloat() (*Column, error) {
	if c.Kind() == KindFloat {
		return c, nil
	}
	out := make([]float64, c.Len())
	for i := range out {
		if c.IsMissing(i) {
			out[i] = math.NaN()
			continue
		}
		v, err := parseFloatCell(c.String(i))
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", c.Name(), i+1, err)
		}
		out[i] = v
	}
	return NewFloatColumn(c.Name(), out), nil
}

// ToInt converts a column into an int column. Spreadsheet exports sometimes
// render whole numbers as "2020.0", so integral floats are accepted.
func (c *Column) ToInt() (*Column, error) {
	if c.Kind() == KindInt {
		return c, nil
	}
	vals := make([]int, c.Len())
	mask := make([]bool, c.Len())
	for i := range vals {
		if c.IsMissing(i) {
			continue
		}
		v := c.Float(i)
		if c.Kind() == KindString {
			var err error
			if v, err = parseFloatCell(c.String(i)); err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", c.Name(), i+1, err)
			}
		}
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("column %q row %d: %v is not a whole number", c.Name(), i+1, v)
		}
		vals[i], mask[i] = int(v), true
	}
	return NewIntColumn(c.Name(), vals, mask), nil
}

func parseFloatCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// Frame is an immutable table backed by a gota DataFrame.
// Every transformation returns a new Frame and leaves the receiver untouched.
// A frame without columns has no rows.
type Frame struct {
	df dataframe.DataFrame
}

// NewFrame assembles columns into a frame. Names must be unique and lengths equal.
func NewFrame(columns ...*Column) (*Frame, error) {
	seen := make(map[string]bool, len(columns))
	list := make([]series.Series, 0, len(columns))
	for i, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate column %q", c.Name())
		}
		if i > 0 && c.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name(), c.Len(), columns[0].Len())
		}
		seen[c.Name()] = true
		list = append(list, c.s)
	}
	return fromSeries(list)
}

func fromSeries(list []series.Series) (*Frame, error) {
	if len(list) == 0 {
		return &Frame{}, nil
	}
	df := dataframe.New(list...)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build frame: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// MustFrame is NewFrame for statically known inputs; it panics on error
func MustFrame(columns ...*Column) *Frame {
	f, err := NewFrame(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// LoadRecords builds a string frame from a header row followed by data rows.
// Blank cells are missing.
func LoadRecords(records [][]string) (*Frame, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	if len(records) == 1 {
		cols := make([]*Column, len(records[0]))
		for i, name := range records[0] {
			cols[i] = NewStringColumn(name, nil)
		}
		return NewFrame(cols...)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{"", naToken}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to load records: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	if f.df.Ncol() == 0 {
		return 0
	}
	return f.df.Nrow()
}

// Names returns the column names in order
func (f *Frame) Names() []string {
	if f.df.Ncol() == 0 {
		return []string{}
	}
	return f.df.Names()
}

// Has reports whether the frame holds a column named name
func (f *Frame) Has(name string) bool {
	for _, n := range f.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column returns the named column
func (f *Frame) Column(name string) (*Column, bool) {
	if !f.Has(name) {
		return nil, false
	}
	return &Column{s: f.df.Col(name)}, true
}

// Columns returns the columns in order
func (f *Frame) Columns() []*Column {
	names := f.Names()
	out := make([]*Column, len(names))
	for i, n := range names {
		out[i] = &Column{s: f.df.Col(n)}
	}
	return out
}

// With returns a frame where col replaces the column of the same name, or is
// appended when no such column exists.
func (f *Frame) With(cols ...*Column) (*Frame, error) {
	df := f.df
	for _, c := range cols {
		if df.Ncol() == 0 {
			next, err := fromSeries([]series.Series{c.s})
			if err != nil {
				return nil, err
			}
			df = next.df
			continue
		}
		if c.Len() != df.Nrow() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name(), c.Len(), df.Nrow())
		}
		if df = df.Mutate(c.s); df.Err != nil {
			return nil, fmt.Errorf("failed to set column %q: %w", c.Name(), df.Err)
		}
	}
	return &Frame{df: df}, nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	var present, keep []string
	for _, n := range f.Names() {
		if drop[n] {
			present = append(present, n)
		} else {
			keep = append(keep, n)
		}
	}
	switch {
	case len(present) == 0:
		return f
	case len(keep) == 0:
		return &Frame{}
	}
	return &Frame{df: f.df.Drop(present)}
}

// Select returns a frame holding exactly the named columns in the given order
func (f *Frame) Select(names ...string) (*Frame, error) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !f.Has(n) {
			return nil, fmt.Errorf("column %q not found", n)
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = true
	}
	if len(names) == 0 {
		return &Frame{}, nil
	}
	df := f.df.Select(names)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to select columns: %w", df.Err)
	}
	return &Frame{df: df}, nil
}

// Rename returns a frame with columns renamed according to mapping
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	names := f.Names()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if to, ok := mapping[n]; ok {
			n = to
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate column %q", n)
		}
		seen[n] = true
	}

	df := f.df
	for _, from := range names {
		to, ok := mapping[from]
		if !ok || to == from {
			continue
		}
		if df = df.Rename(to, from); df.Err != nil {
			return nil, fmt.Errorf("failed to rename column %q: %w", from, df.Err)
		}
	}
	return &Frame{df: df}, nil
}

// Filter returns the rows for which keep returns true, in their original order
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	idx := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.Take(idx)
}

// FilterValues keeps the rows whose cell in column name satisfies keep.
// Missing cells are passed as "".
func (f *Frame) FilterValues(name string, keep func(value string) bool) (*Frame, error) {
	if !f.Has(name) {
		return nil, fmt.Errorf("column %q not found", name)
	}
	if f.Len() == 0 {
		return f, nil
	}
	df := f.df.Filter(dataframe.F{
		Colname:    name,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			if el.IsNA() {
				return keep("")
			}
			return keep(el.String())
		},
	})
	if df.Err != nil {
		return nil, fmt.Errorf("failed to filter on %q: %w", name, df.Err)
	}
	if df.Nrow() == 0 {
		return f.Take(nil), nil
	}
	return &Frame{df: df}, nil
}

// Take returns the rows at idx in the order given
func (f *Frame) Take(idx []int) *Frame {
	if f.df.Ncol() == 0 {
		return f
	}
	if len(idx) == 0 {
		cols := f.Columns()
		list := make([]series.Series, len(cols))
		for i, c := range cols {
			list[i] = c.empty()
		}
		out, err := fromSeries(list)
		if err != nil {
			panic(err)
		}
		return out
	}
	return &Frame{df: f.df.Subset(idx)}
}
