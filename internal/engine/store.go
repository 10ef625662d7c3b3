package engine

import (
	"errors"
	"fmt"

	"carviz/internal/models"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrColumnKind    = errors.New("column has the wrong kind")
)

// CategoryColumn is a dictionary encoded string column.
// Dict is ordered by first appearance, so it doubles as the group order.
type CategoryColumn struct {
	IDs  []int32
	Dict []string
}

// ColumnStore holds the dataset in Struct-of-Arrays format.
// It is built once by the loader and never mutated afterwards.
type ColumnStore struct {
	Numbers    map[string][]float64
	Categories map[string]*CategoryColumn

	columns     []string
	categorical []string
	numerical   []string
	rows        int
}

func (cs *ColumnStore) Len() int { return cs.rows }

// Columns returns the column names in file order, identifier excluded.
func (cs *ColumnStore) Columns() []string { return append([]string(nil), cs.columns...) }

func (cs *ColumnStore) Categorical() []string { return append([]string(nil), cs.categorical...) }

func (cs *ColumnStore) Numerical() []string { return append([]string(nil), cs.numerical...) }

// Kind reports which partition a column belongs to.
func (cs *ColumnStore) Kind(name string) (models.WidgetKind, bool) {
	if _, ok := cs.Numbers[name]; ok {
		return models.Numerical, true
	}
	if _, ok := cs.Categories[name]; ok {
		return models.Categorical, true
	}
	return "", false
}

func (cs *ColumnStore) numbers(name string) ([]float64, error) {
	if v, ok := cs.Numbers[name]; ok {
		return v, nil
	}
	if _, ok := cs.Categories[name]; ok {
		return nil, fmt.Errorf("%q is categorical, want numerical: %w", name, ErrColumnKind)
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
}

func (cs *ColumnStore) category(name string) (*CategoryColumn, error) {
	if c, ok := cs.Categories[name]; ok {
		return c, nil
	}
	if _, ok := cs.Numbers[name]; ok {
		return nil, fmt.Errorf("%q is numerical, want categorical: %w", name, ErrColumnKind)
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownColumn)
}

// Rows returns a window of records keyed by column name.
func (cs *ColumnStore) Rows(offset, limit int) []map[string]interface{} {
	if offset < 0 {
		offset = 0
	}
	if offset >= cs.rows {
		return []map[string]interface{}{}
	}
	end := offset + limit
	if limit <= 0 || end > cs.rows {
		end = cs.rows
	}

	out := make([]map[string]interface{}, 0, end-offset)
	for i := offset; i < end; i++ {
		rec := make(map[string]interface{}, len(cs.columns))
		for _, name := range cs.columns {
			if v, ok := cs.Numbers[name]; ok {
				rec[name] = v[i]
				continue
			}
			c := cs.Categories[name]
			rec[name] = c.Dict[c.IDs[i]]
		}
		out = append(out, rec)
	}
	return out
}
