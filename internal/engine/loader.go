package engine

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/labstack/gommon/log"
)

// Load reads the dataset at path. Any failure is reported as an error;
// there is no partial load.
func Load(path, idColumn string) (*ColumnStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	start := time.Now()
	cs, err := LoadReader(f, idColumn)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Infof("Load Complete. Rows: %d. Categorical: %d. Numerical: %d. Time: %v",
		cs.rows, len(cs.categorical), len(cs.numerical), time.Since(start))
	return cs, nil
}

// LoadReader parses a CSV with a header row, drops idColumn and partitions
// the remaining columns by detected type: string columns are categorical,
// everything else is numerical.
func LoadReader(r io.Reader, idColumn string) (*ColumnStore, error) {
	df := dataframe.ReadCSV(r, dataframe.HasHeader(true), dataframe.DetectTypes(true))
	if df.Err != nil {
		return nil, fmt.Errorf("parse csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.New("dataset has no rows")
	}

	if idColumn != "" {
		if !hasColumn(df.Names(), idColumn) {
			return nil, fmt.Errorf("identifier column %q: %w", idColumn, ErrUnknownColumn)
		}
		df = df.Drop(idColumn)
		if df.Err != nil {
			return nil, fmt.Errorf("drop %q: %w", idColumn, df.Err)
		}
	}

	rows := df.Nrow()
	store := &ColumnStore{
		Numbers:    make(map[string][]float64),
		Categories: make(map[string]*CategoryColumn),
		columns:    df.Names(),
		rows:       rows,
	}

	for i, t := range df.Types() {
		name := store.columns[i]
		col := df.Col(name)

		if t == series.String {
			store.categorical = append(store.categorical, name)
			store.Categories[name] = encode(col.Records())
			continue
		}

		for row, missing := range col.IsNaN() {
			if missing {
				return nil, fmt.Errorf("numerical column %q has a missing value at row %d", name, row+1)
			}
		}
		values := col.Float()
		for row, v := range values {
			if math.IsInf(v, 0) {
				return nil, fmt.Errorf("numerical column %q has an infinite value at row %d", name, row+1)
			}
		}
		store.numerical = append(store.numerical, name)
		store.Numbers[name] = values
	}

	log.Debugf("categorical columns: %v", store.categorical)
	log.Debugf("numerical columns: %v", store.numerical)
	return store, nil
}

// encode builds the dictionary in first-appearance order.
func encode(values []string) *CategoryColumn {
	c := &CategoryColumn{IDs: make([]int32, len(values))}
	ids := make(map[string]int32)
	for i, v := range values {
		id, ok := ids[v]
		if !ok {
			id = int32(len(c.Dict))
			c.Dict = append(c.Dict, v)
			ids[v] = id
		}
		c.IDs[i] = id
	}
	return c
}

func hasColumn(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
