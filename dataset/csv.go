// Package dataset loads labeled numeric samples from CSV tables.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"gonet/neuralnet"
)

const defaultNormalization = 255

// Options controls how a CSV table is split into samples.
type Options struct {
	// SplitIndex is the column where features end and labels begin.
	SplitIndex int
	// Normalization divides every feature value. Labels are never
	// normalized. Defaults to 255 (pixel data).
	Normalization float64
	// OneHotClasses, when positive, expands single-column integer labels
	// into one-hot vectors of this length.
	OneHotClasses int
}

// ReadCSV loads a labeled dataset. Each row splits at opts.SplitIndex into a
// normalized feature vector and an unnormalized label vector. The parsed
// table is materialized as one rank-2 tensor before being cut into
// per-sample vectors.
func ReadCSV(path string, opts Options) ([]neuralnet.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer file.Close()

	if opts.Normalization == 0 {
		opts.Normalization = defaultNormalization
	}

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %s is empty", path)
	}
	cols := len(records[0])
	if opts.SplitIndex <= 0 || opts.SplitIndex >= cols {
		return nil, fmt.Errorf("dataset: split index %d outside row width %d", opts.SplitIndex, cols)
	}

	backing := make([]float64, 0, len(records)*cols)
	for i, record := range records {
		for _, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: %s row %d: %w", path, i, err)
			}
			backing = append(backing, v)
		}
	}
	table := tensor.New(tensor.WithShape(len(records), cols), tensor.WithBacking(backing))

	samples := make([]neuralnet.Sample, len(records))
	for i := range records {
		view, err := table.Slice(tensor.S(i))
		if err != nil {
			return nil, fmt.Errorf("dataset: slice row %d: %w", i, err)
		}
		row := view.Materialize().Data().([]float64)

		features := make([]float64, opts.SplitIndex)
		for j, v := range row[:opts.SplitIndex] {
			features[j] = v / opts.Normalization
		}
		label := append([]float64(nil), row[opts.SplitIndex:]...)
		if opts.OneHotClasses > 0 {
			label, err = oneHotRow(label, opts.OneHotClasses)
			if err != nil {
				return nil, fmt.Errorf("dataset: %s row %d: %w", path, i, err)
			}
		}

		samples[i] = neuralnet.Sample{
			Input: mat.NewVecDense(len(features), features),
			Label: mat.NewVecDense(len(label), label),
		}
	}
	return samples, nil
}

// OneHot expands integer class labels into a rank-2 one-hot tensor, one row
// per label.
func OneHot(labels []int, classes int) (*tensor.Dense, error) {
	backing := make([]float64, len(labels)*classes)
	for i, label := range labels {
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("dataset: label %d outside %d classes", label, classes)
		}
		backing[i*classes+label] = 1
	}
	return tensor.New(tensor.WithShape(len(labels), classes), tensor.WithBacking(backing)), nil
}

func oneHotRow(label []float64, classes int) ([]float64, error) {
	if len(label) != 1 {
		return nil, fmt.Errorf("one-hot expansion needs a single label column, got %d", len(label))
	}
	encoded, err := OneHot([]int{int(label[0])}, classes)
	if err != nil {
		return nil, err
	}
	return encoded.Data().([]float64), nil
}
