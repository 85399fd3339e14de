package features

import (
	"fmt"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Scaler standardizes columns with per-column means and scales
type Scaler struct {
	Columns []string  `yaml:"columns"`
	Means   []float64 `yaml:"means"`
	Stds    []float64 `yaml:"stds"`
}

// FitScaler computes the sample mean and sample standard deviation of each column over
// its non-NaN values. A column whose std is zero or undefined gets scale 1.
func FitScaler(df dataframe.DataFrame) (*Scaler, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	s := &Scaler{}
	for _, name := range df.Names() {
		mean, std := validMeanStd(df.Col(name).Float())
		if math.IsNaN(mean) {
			mean = 0
		}
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		s.Columns = append(s.Columns, name)
		s.Means = append(s.Means, mean)
		s.Stds = append(s.Stds, std)
	}
	return s, nil
}

func validMeanStd(values []float64) (mean, std float64) {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
			mean += v
		}
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}
	mean /= float64(n)
	if n < 2 {
		return mean, math.NaN()
	}

	var ss float64
	for _, v := range values {
		if !math.IsNaN(v) {
			d := v - mean
			ss += d * d
		}
	}
	return mean, math.Sqrt(ss / float64(n-1))
}

func (s *Scaler) index(name string) (int, bool) {
	for i, c := range s.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Transform standardizes every column of df. NaN stays NaN.
func (s *Scaler) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		if _, ok := s.index(name); !ok {
			return df, fmt.Errorf("column %s was not fitted", name)
		}
	}

	out := df.Capply(func(col series.Series) series.Series {
		i, _ := s.index(col.Name)
		values := col.Float()
		scaled := make([]float64, len(values))
		for j, v := range values {
			scaled[j] = (v - s.Means[i]) / s.Stds[i]
		}
		return series.New(scaled, series.Float, col.Name)
	})
	if out.Err != nil {
		return out, fmt.Errorf("failed to scale feature matrix: %w", out.Err)
	}
	return out, nil
}

// Standardize fits a scaler on df and applies it
func Standardize(df dataframe.DataFrame) (dataframe.DataFrame, *Scaler, error) {
	scaler, err := FitScaler(df)
	if err != nil {
		return df, nil, err
	}
	scaled, err := scaler.Transform(df)
	if err != nil {
		return df, nil, err
	}
	return scaled, scaler, nil
}

// WriteMatrixCSV writes a feature matrix with a header row
func WriteMatrixCSV(w io.Writer, df dataframe.DataFrame) error {
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write feature matrix: %w", err)
	}
	return nil
}
