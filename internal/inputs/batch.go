package inputs

import (
	"fmt"
)

// Batch is a row-major [rows, width] block of raw feature values. Sparse
// columns carry category ids as float values.
type Batch struct {
	rows  int
	width int
	data  []float32
}

// NewBatchFromMatrix wraps a row-major matrix. The slice is not copied.
func NewBatchFromMatrix(data []float32, rows, width int) (*Batch, error) {
	if rows <= 0 || width <= 0 {
		return nil, fmt.Errorf("batch shape [%d, %d] must be positive: %w", rows, width, ErrInvalidFeature)
	}
	if len(data) != rows*width {
		return nil, fmt.Errorf("batch data has %d values, want %d x %d: %w", len(data), rows, width, ErrInvalidFeature)
	}
	return &Batch{rows: rows, width: width, data: data}, nil
}

// NewBatch assembles a batch from per-feature values laid out as in
// NewFeatureIndex(columns). Each feature must provide rows*Width() values.
func NewBatch(columns []FeatureColumn, values map[string][]float32) (*Batch, error) {
	idx := NewFeatureIndex(columns)
	if idx.Width() == 0 {
		return nil, fmt.Errorf("no feature columns: %w", ErrInvalidFeature)
	}

	rows := -1
	for _, name := range idx.Names() {
		span, _ := idx.Span(name)
		v, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("missing values for feature %q: %w", name, ErrInvalidFeature)
		}
		w := span.End - span.Start
		if len(v)%w != 0 {
			return nil, fmt.Errorf("feature %q: %d values is not a multiple of width %d: %w", name, len(v), w, ErrInvalidFeature)
		}
		n := len(v) / w
		if rows < 0 {
			rows = n
		} else if n != rows {
			return nil, fmt.Errorf("feature %q has %d rows, want %d: %w", name, n, rows, ErrInvalidFeature)
		}
	}
	if rows == 0 {
		return nil, fmt.Errorf("empty batch: %w", ErrInvalidFeature)
	}

	data := make([]float32, rows*idx.Width())
	for _, name := range idx.Names() {
		span, _ := idx.Span(name)
		w := span.End - span.Start
		v := values[name]
		for r := 0; r < rows; r++ {
			copy(data[r*idx.Width()+span.Start:r*idx.Width()+span.End], v[r*w:(r+1)*w])
		}
	}
	return &Batch{rows: rows, width: idx.Width(), data: data}, nil
}

// Rows returns the number of rows.
func (b *Batch) Rows() int { return b.rows }

// Width returns the number of columns.
func (b *Batch) Width() int { return b.width }

// Data returns the underlying row-major values.
func (b *Batch) Data() []float32 { return b.data }

// Columns copies the column range span into a new [rows, span width]
// row-major slice.
func (b *Batch) Columns(span Span) []float32 {
	if span.Start < 0 || span.End > b.width || span.Start >= span.End {
		panic(fmt.Sprintf("batch: column span [%d, %d) out of range for width %d", span.Start, span.End, b.width))
	}
	w := span.End - span.Start
	out := make([]float32, b.rows*w)
	for r := 0; r < b.rows; r++ {
		copy(out[r*w:(r+1)*w], b.data[r*b.width+span.Start:r*b.width+span.End])
	}
	return out
}

// Slice returns rows [start, end) as a new batch sharing the same storage.
func (b *Batch) Slice(start, end int) *Batch {
	if start < 0 || end > b.rows || start >= end {
		panic(fmt.Sprintf("batch: row range [%d, %d) out of range for %d rows", start, end, b.rows))
	}
	return &Batch{rows: end - start, width: b.width, data: b.data[start*b.width : end*b.width]}
}
