package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Layer is one dense layer: a bias vector of length size and a
// size x previousLayerSize weight matrix, plus a shared stateless activation
// function. Parameters are mutated only by the optimizer's update step and
// live as long as the network.
type Layer struct {
	size       int
	activation ActivationFunction

	bias   *mat.VecDense
	weight *mat.Dense
}

// NewLayer creates a layer of the given neuron count with no parameters yet.
func NewLayer(size int, activation ActivationFunction) *Layer {
	return &Layer{size: size, activation: activation}
}

// Size returns the number of neurons.
func (l *Layer) Size() int { return l.size }

// Activation returns the layer's activation function.
func (l *Layer) Activation() ActivationFunction { return l.activation }

// Parameters returns the bias vector and weight matrix, used when writing
// the network to a file.
func (l *Layer) Parameters() (*mat.VecDense, *mat.Dense) { return l.bias, l.weight }

// Initialize draws fresh parameters from generator. Weight entries are
// additionally divided by sqrt(previousLayerSize), so a unit-variance
// generator yields 1/sqrt(fan-in) scaling.
func (l *Layer) Initialize(previousLayerSize int, generator func() float64) {
	scale := 1 / math.Sqrt(float64(previousLayerSize))
	l.bias = mat.NewVecDense(l.size, nil)
	for i := 0; i < l.size; i++ {
		l.bias.SetVec(i, generator())
	}
	l.weight = mat.NewDense(l.size, previousLayerSize, nil)
	for i := 0; i < l.size; i++ {
		for j := 0; j < previousLayerSize; j++ {
			l.weight.Set(i, j, generator()*scale)
		}
	}
}

// SetParameters assigns restored parameters directly. No shape validation
// happens here; callers keep the weight column count consistent with the
// previous layer.
func (l *Layer) SetParameters(bias *mat.VecDense, weight *mat.Dense) {
	l.bias = bias
	l.weight = weight
	l.size = bias.Len()
}

// FeedForward returns activation(W*x + b).
func (l *Layer) FeedForward(x *mat.VecDense) *mat.VecDense {
	a, _ := l.feedForwardTraced(x)
	return a
}

// feedForwardTraced also returns the weighted input z, which backpropagation
// needs to evaluate the activation derivative without recomputation.
func (l *Layer) feedForwardTraced(x *mat.VecDense) (a, z *mat.VecDense) {
	z = mat.NewVecDense(l.size, nil)
	z.MulVec(l.weight, x)
	z.AddVec(z, l.bias)
	return l.activation.Calculate(z), z
}

// feedBackward is the chain-rule step of backpropagation. Given the error
// signal from the next layer, the previous layer's activation and this
// layer's weighted input, it produces this layer's parameter gradients and
// the error signal for the layer below.
func (l *Layer) feedBackward(deltaNext, aPrev, z *mat.VecDense) (gradBias *mat.VecDense, gradWeight *mat.Dense, deltaPrev *mat.VecDense, err error) {
	sigma, err := l.activation.CalculateDerivative(z)
	if err != nil {
		return nil, nil, nil, err
	}
	delta := mat.NewVecDense(l.size, nil)
	delta.MulElemVec(deltaNext, sigma)

	gradWeight = mat.NewDense(l.size, aPrev.Len(), nil)
	gradWeight.Outer(1, delta, aPrev)
	gradBias = delta

	deltaPrev = mat.NewVecDense(aPrev.Len(), nil)
	deltaPrev.MulVec(l.weight.T(), delta)
	return gradBias, gradWeight, deltaPrev, nil
}

// updateBiasWeight applies an accumulated batch gradient. The regularization
// ratio decays weights only, never biases, and uses the weight values from
// before this update.
func (l *Layer) updateBiasWeight(gradBias *mat.VecDense, gradWeight *mat.Dense, lrRatio, regRatio float64) {
	l.bias.AddScaledVec(l.bias, lrRatio, gradBias)

	var step, decay mat.Dense
	step.Scale(lrRatio, gradWeight)
	decay.Scale(regRatio, l.weight)
	l.weight.Add(l.weight, &step)
	l.weight.Add(l.weight, &decay)
}
