package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ActivationFunction is a stateless nonlinearity applied to a layer's
// weighted input. Implementations are value types shared by every layer of
// the same kind.
type ActivationFunction interface {
	// Name returns the identifier used by the factories and the
	// persistence format.
	Name() string
	// Calculate applies the nonlinearity to the weighted input z.
	Calculate(z *mat.VecDense) *mat.VecDense
	// CalculateDerivative returns the derivative needed by backpropagation.
	CalculateDerivative(z *mat.VecDense) (*mat.VecDense, error)
}

// Logistic is the sigmoid activation 1/(1+exp(-z)), applied elementwise.
type Logistic struct{}

func (Logistic) Name() string { return "logistic" }

func (Logistic) Calculate(z *mat.VecDense) *mat.VecDense {
	a := mat.NewVecDense(z.Len(), nil)
	for i := 0; i < z.Len(); i++ {
		a.SetVec(i, 1/(1+math.Exp(-z.AtVec(i))))
	}
	return a
}

// CalculateDerivative returns f(z)*(1-f(z)), reapplying Calculate rather
// than caching the forward value.
func (l Logistic) CalculateDerivative(z *mat.VecDense) (*mat.VecDense, error) {
	f := l.Calculate(z)
	d := mat.NewVecDense(f.Len(), nil)
	for i := 0; i < f.Len(); i++ {
		v := f.AtVec(i)
		d.SetVec(i, v*(1-v))
	}
	return d, nil
}

// Softmax normalizes exponentials across the whole vector. The exponential
// is not stabilized by subtracting the maximum, so large weighted inputs
// overflow to +Inf and the normalized result degenerates to NaN.
type Softmax struct{}

func (Softmax) Name() string { return "softmax" }

func (Softmax) Calculate(z *mat.VecDense) *mat.VecDense {
	a := mat.NewVecDense(z.Len(), nil)
	var sum float64
	for i := 0; i < z.Len(); i++ {
		e := math.Exp(z.AtVec(i))
		a.SetVec(i, e)
		sum += e
	}
	a.ScaleVec(1/sum, a)
	return a
}

// CalculateDerivative has no backing implementation, so a softmax layer
// cannot take part in training; the error propagates out of any pass that
// reaches it.
func (Softmax) CalculateDerivative(*mat.VecDense) (*mat.VecDense, error) {
	return nil, &UnimplementedError{Kind: "activation function derivative", Name: "softmax"}
}
