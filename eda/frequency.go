package eda

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/giygas/drugs-eda/dataset"
)

// CategoryCount is one row of a frequency table
type CategoryCount struct {
	Value string `yaml:"value" json:"value"`
	Count int    `yaml:"count" json:"count"`
}

// FrequencyTable maps the distinct values of a column to their counts, descending.
// Ties keep the order in which the values first appear.
type FrequencyTable struct {
	Column string          `yaml:"column" json:"column"`
	Counts []CategoryCount `yaml:"counts" json:"counts"`
	Total  int             `yaml:"total" json:"total"`
}

// Frequencies counts the non-empty values of a column
func Frequencies(column string, values []string) *FrequencyTable {
	index := make(map[string]int)
	ft := &FrequencyTable{Column: column, Counts: []CategoryCount{}}

	for _, v := range values {
		if v == "" {
			continue
		}
		ft.Total++
		if i, ok := index[v]; ok {
			ft.Counts[i].Count++
			continue
		}
		index[v] = len(ft.Counts)
		ft.Counts = append(ft.Counts, CategoryCount{Value: v, Count: 1})
	}

	sort.SliceStable(ft.Counts, func(i, j int) bool {
		return ft.Counts[i].Count > ft.Counts[j].Count
	})
	return ft
}

// ColumnFrequencies counts the values of a text column of t
func ColumnFrequencies(t *dataset.Table, column string) *FrequencyTable {
	return Frequencies(column, t.Texts(column))
}

// Top returns at most n leading entries
func (ft *FrequencyTable) Top(n int) []CategoryCount {
	if n > len(ft.Counts) {
		n = len(ft.Counts)
	}
	if n < 0 {
		n = 0
	}
	top := make([]CategoryCount, n)
	copy(top, ft.Counts[:n])
	return top
}

// WriteFrequencyCSV writes the table with a "<column>,count" header
func WriteFrequencyCSV(w io.Writer, ft *FrequencyTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ft.Column, "count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range ft.Counts {
		if err := cw.Write([]string{c.Value, strconv.Itoa(c.Count)}); err != nil {
			return fmt.Errorf("failed to write %q: %w", c.Value, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
