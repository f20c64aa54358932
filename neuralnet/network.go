package neuralnet

import (
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// fixedSeed makes runs reproducible when true randomness is not requested.
const fixedSeed = 17111993

// Sample pairs a feature vector with its label vector.
type Sample struct {
	Input *mat.VecDense
	Label *mat.VecDense
}

// Network is an ordered stack of dense layers trained against a cost
// function by an optimizer.
type Network struct {
	// Per-epoch metric series, appended once per epoch for an external
	// reporter to consume.
	TrainingCost       []float64
	TrainingAccuracy   []float64
	EvaluationCost     []float64
	EvaluationAccuracy []float64

	inputSize int
	layers    []*Layer

	cost      CostFunction
	optimizer Optimizer

	rng    *rand.Rand
	normal func() float64

	logger *log.Logger
}

// NewNetwork creates an empty network. A single RNG stream, seeded from the
// clock when trueRandom is set and from a fixed constant otherwise, drives
// both layer initialization and the optimizer's shuffling, so fixed-seed
// runs are bit-reproducible.
func NewNetwork(inputSize int, cost CostFunction, optimizer Optimizer, trueRandom bool) *Network {
	seed := uint64(fixedSeed)
	if trueRandom {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	n := &Network{
		inputSize: inputSize,
		cost:      cost,
		optimizer: optimizer,
		rng:       rng,
		normal:    distuv.Normal{Mu: 0, Sigma: 1, Src: rng}.Rand,
	}
	optimizer.Initialize(rng, n)
	return n
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int { return len(n.layers) }

// InputSize returns the configured feature-vector length.
func (n *Network) InputSize() int { return n.inputSize }

// OutputSize returns the last layer's neuron count, or zero for an empty
// network.
func (n *Network) OutputSize() int {
	if len(n.layers) == 0 {
		return 0
	}
	return n.layers[len(n.layers)-1].Size()
}

// CostFunction returns the network's cost function.
func (n *Network) CostFunction() CostFunction { return n.cost }

// SetLogger installs a per-epoch reporter. A nil logger keeps training
// silent.
func (n *Network) SetLogger(l *log.Logger) { n.logger = l }

// AddLayer appends a layer. When initialize is set the layer draws fresh
// parameters sized against the preceding layer (or the network input for the
// first layer); otherwise the layer is assumed pre-populated, the path used
// when restoring from a file.
func (n *Network) AddLayer(layer *Layer, initialize bool) *Network {
	if initialize {
		previousSize := n.inputSize
		if len(n.layers) > 0 {
			previousSize = n.layers[len(n.layers)-1].Size()
		}
		layer.Initialize(previousSize, n.normal)
	}
	n.layers = append(n.layers, layer)
	return n
}

// Train runs the optimizer for the given number of epochs and records the
// four metric series after each one. The trailing len(training) mod
// batchSize samples sit out every epoch. Batch gradients stay summed; the
// division by batch size is baked into the learning-rate ratio.
func (n *Network) Train(training, evaluation []Sample, epochs, batchSize int, eta, lambda float64) error {
	if len(n.layers) == 0 {
		return &ShapeError{Context: "Network.Train: network has no layers"}
	}
	if len(training) == 0 {
		return &ShapeError{Context: "Network.Train: empty training set"}
	}
	if batchSize < 1 {
		return &ShapeError{Context: fmt.Sprintf("Network.Train: batch size must be positive, got %d", batchSize)}
	}
	if got := training[0].Input.Len(); got != n.inputSize {
		return &ShapeError{Context: "Network.Train: input layer", Want: n.inputSize, Got: got}
	}
	last := n.layers[len(n.layers)-1]
	if got := training[0].Label.Len(); got != last.Size() {
		return &ShapeError{Context: "Network.Train: output layer", Want: last.Size(), Got: got}
	}

	nTraining := len(training)
	nBatches := nTraining / batchSize
	lrRatio := -eta / float64(batchSize)
	regRatio := -eta * lambda / float64(nTraining)

	for epoch := 0; epoch < epochs; epoch++ {
		if err := n.optimizer.Optimize(training, nBatches, batchSize, lrRatio, regRatio); err != nil {
			return err
		}

		trainingCorrect, trainingCost := n.CalcAccuracyAndCost(training, 0)
		evaluationCorrect, evaluationCost := n.CalcAccuracyAndCost(evaluation, 0)
		trainingCost /= float64(nTraining)
		evaluationCost /= float64(len(evaluation))

		n.TrainingCost = append(n.TrainingCost, trainingCost)
		n.TrainingAccuracy = append(n.TrainingAccuracy, float64(trainingCorrect)/float64(nTraining))
		n.EvaluationCost = append(n.EvaluationCost, evaluationCost)
		n.EvaluationAccuracy = append(n.EvaluationAccuracy, float64(evaluationCorrect)/float64(len(evaluation)))

		if n.logger != nil {
			n.logger.Printf("epoch=%d training_cost=%g training_accuracy=%d/%d evaluation_cost=%g evaluation_accuracy=%d/%d",
				epoch, trainingCost, trainingCorrect, nTraining, evaluationCost, evaluationCorrect, len(evaluation))
		}
	}
	return nil
}

// Predict runs a forward pass and converts the output to a decision.
func (n *Network) Predict(x *mat.VecDense) int {
	return n.outputToDecision(n.feedForward(x))
}

// CalcAccuracyAndCost counts correct decisions over data and accumulates the
// total cost plus the (lambda/2)*sum(||W||_F^2) regularization term. The
// total is not divided by the set size; callers normalize.
func (n *Network) CalcAccuracyAndCost(data []Sample, lambda float64) (correct int, cost float64) {
	for _, sample := range data {
		predicted := n.feedForward(sample.Input)
		if n.outputToDecision(predicted) == n.outputToDecision(sample.Label) {
			correct++
		}
		cost += n.cost.Calculate(predicted, n.labelToOutput(sample.Label))
	}

	var regularization float64
	for _, layer := range n.layers {
		norm := mat.Norm(layer.weight, 2)
		regularization += norm * norm
	}
	cost += (lambda / 2) * regularization

	return correct, cost
}

func (n *Network) feedForward(x *mat.VecDense) *mat.VecDense {
	a := x
	for _, layer := range n.layers {
		a = layer.FeedForward(a)
	}
	return a
}

// outputToDecision reduces an output vector to a discrete decision: the
// argmax index for multi-element vectors, the truncated scalar otherwise.
func (n *Network) outputToDecision(output *mat.VecDense) int {
	if output.Len() > 1 {
		return floats.MaxIdx(output.RawVector().Data)
	}
	return int(output.AtVec(0))
}

// labelToOutput expands a label to the output layer's shape. Multi-element
// labels pass through, as does a scalar label when the output layer has a
// single neuron; otherwise the scalar selects the hot index of a one-hot
// vector.
func (n *Network) labelToOutput(label *mat.VecDense) *mat.VecDense {
	lastSize := n.layers[len(n.layers)-1].Size()
	if label.Len() > 1 || lastSize == 1 {
		return label
	}
	out := mat.NewVecDense(lastSize, nil)
	out.SetVec(int(label.AtVec(0)), 1)
	return out
}

// backPropagate runs one traced forward pass and walks the layers in
// reverse, producing per-layer bias and weight gradients for one sample. The
// backward pass is seeded with the cost derivative at the final activation.
func (n *Network) backPropagate(x, y *mat.VecDense) ([]*mat.VecDense, []*mat.Dense, error) {
	nLayers := len(n.layers)
	zs := make([]*mat.VecDense, nLayers)
	activations := make([]*mat.VecDense, nLayers+1)
	activations[0] = x
	for i, layer := range n.layers {
		activations[i+1], zs[i] = layer.feedForwardTraced(activations[i])
	}

	gradBias := make([]*mat.VecDense, nLayers)
	gradWeight := make([]*mat.Dense, nLayers)
	delta := n.cost.CalculateDerivative(activations[nLayers], y)
	for i := nLayers - 1; i >= 0; i-- {
		gb, gw, deltaPrev, err := n.layers[i].feedBackward(delta, activations[i], zs[i])
		if err != nil {
			return nil, nil, err
		}
		gradBias[i], gradWeight[i] = gb, gw
		delta = deltaPrev
	}
	return gradBias, gradWeight, nil
}

// UpdateParameters applies one batch: per-sample gradients are summed into
// zeroed per-layer accumulators and each layer is updated once with the
// sums. Invoked by the optimizer once per batch.
func (n *Network) UpdateParameters(batch []Sample, lrRatio, regRatio float64) error {
	nablaB := make([]*mat.VecDense, len(n.layers))
	nablaW := make([]*mat.Dense, len(n.layers))
	previousSize := n.inputSize
	for i, layer := range n.layers {
		nablaB[i] = mat.NewVecDense(layer.Size(), nil)
		nablaW[i] = mat.NewDense(layer.Size(), previousSize, nil)
		previousSize = layer.Size()
	}

	for _, sample := range batch {
		gradBias, gradWeight, err := n.backPropagate(sample.Input, sample.Label)
		if err != nil {
			return err
		}
		for i := range n.layers {
			nablaB[i].AddVec(nablaB[i], gradBias[i])
			nablaW[i].Add(nablaW[i], gradWeight[i])
		}
	}

	for i, layer := range n.layers {
		layer.updateBiasWeight(nablaB[i], nablaW[i], lrRatio, regRatio)
	}
	return nil
}

// String describes the topology, one line per layer.
func (n *Network) String() string {
	if len(n.layers) == 0 {
		return "empty network"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "network with %d layers:\n", len(n.layers))
	fmt.Fprintf(&sb, "     input: %d neurons\n", n.inputSize)
	for i, layer := range n.layers[:len(n.layers)-1] {
		fmt.Fprintf(&sb, "    %6d: %d neurons (%s)\n", i, layer.Size(), layer.Activation().Name())
	}
	last := n.layers[len(n.layers)-1]
	fmt.Fprintf(&sb, "    output: %d neurons (%s)", last.Size(), last.Activation().Name())
	return sb.String()
}
