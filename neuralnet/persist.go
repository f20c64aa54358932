package neuralnet

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Save writes the network parameters as comma-separated text: a header line
// with the input size and cost function name, then one (bias line, weight
// line, activation name) triplet per layer. The weight matrix is row-major
// and every value keeps full precision.
func Save(n *Network, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &ResourceError{Op: "writing network parameters", Path: path, Err: err}
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "%d,%s\n", n.inputSize, n.cost.Name())
	for _, layer := range n.layers {
		bias, weight := layer.Parameters()
		writeFloats(w, bias.RawVector().Data)
		rows, cols := weight.Dims()
		raw := make([]float64, 0, rows*cols)
		for i := 0; i < rows; i++ {
			raw = append(raw, weight.RawRowView(i)...)
		}
		writeFloats(w, raw)
		fmt.Fprintln(w, layer.Activation().Name())
	}
	return w.Flush()
}

func writeFloats(w *bufio.Writer, values []float64) {
	for i, v := range values {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.WriteByte('\n')
}

// Load reconstructs a network from a parameters file written by Save. The
// loaded network uses the stochastic gradient descent optimizer and the
// fixed RNG seed.
func Load(path string) (*Network, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Op: "loading network parameters", Path: path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Weight lines grow with layer size; give the scanner room.
	scanner.Buffer(make([]byte, 1024*1024), 256*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("parameters file %s: missing header", path)
	}
	header := strings.Split(scanner.Text(), ",")
	if len(header) != 2 {
		return nil, fmt.Errorf("parameters file %s: malformed header %q", path, scanner.Text())
	}
	inputSize, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("parameters file %s: input size: %w", path, err)
	}
	costKind, err := CostKindByName(header[1])
	if err != nil {
		return nil, err
	}

	network, err := NewNetworkBuilder().
		SetInputSize(inputSize).
		SetCostFunction(costKind).
		SetOptimizer(OptimizerSGD).
		Build()
	if err != nil {
		return nil, err
	}

	var bias *mat.VecDense
	var weight *mat.Dense
	line := 0
	for scanner.Scan() {
		text := scanner.Text()
		switch line % 3 {
		case 0: // bias vector
			values, err := parseFloats(text)
			if err != nil {
				return nil, fmt.Errorf("parameters file %s: bias line %d: %w", path, line+2, err)
			}
			bias = mat.NewVecDense(len(values), values)
		case 1: // weight matrix, row-major
			values, err := parseFloats(text)
			if err != nil {
				return nil, fmt.Errorf("parameters file %s: weight line %d: %w", path, line+2, err)
			}
			if len(values)%bias.Len() != 0 {
				return nil, fmt.Errorf("parameters file %s: weight line %d: %d values do not tile %d rows",
					path, line+2, len(values), bias.Len())
			}
			weight = mat.NewDense(bias.Len(), len(values)/bias.Len(), values)
		case 2: // activation function name
			kind, err := ActivationKindByName(strings.TrimSpace(text))
			if err != nil {
				return nil, err
			}
			layer, err := NewLayerOf(bias.Len(), kind)
			if err != nil {
				return nil, err
			}
			layer.SetParameters(bias, weight)
			network.AddLayer(layer, false)
		}
		line++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parameters file %s: %w", path, err)
	}
	if line%3 != 0 {
		return nil, fmt.Errorf("parameters file %s: truncated layer triplet", path)
	}
	return network, nil
}

func parseFloats(line string) ([]float64, error) {
	cells := strings.Split(line, ",")
	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
