package neuralnet

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CostFunction scores a network output against the expected output and
// provides the derivative that seeds backpropagation.
type CostFunction interface {
	Name() string
	// Calculate returns the scalar cost of predicting x when t was expected.
	Calculate(x, t *mat.VecDense) float64
	// CalculateDerivative returns d(cost)/dx.
	CalculateDerivative(x, t *mat.VecDense) *mat.VecDense
}

// Quadratic is the squared-error cost 0.5*||t-x||^2.
type Quadratic struct{}

func (Quadratic) Name() string { return "quadratic" }

func (Quadratic) Calculate(x, t *mat.VecDense) float64 {
	diff := mat.NewVecDense(t.Len(), nil)
	diff.SubVec(t, x)
	n := mat.Norm(diff, 2)
	return 0.5 * n * n
}

func (Quadratic) CalculateDerivative(x, t *mat.VecDense) *mat.VecDense {
	d := mat.NewVecDense(x.Len(), nil)
	d.SubVec(x, t)
	return d
}

// CrossEntropy is sum(-t*ln(x) - (1-t)*ln(1-x)). Terms that come out
// non-finite (x exactly 0 or 1) count as zero, the usual 0*ln(0) := 0
// convention.
type CrossEntropy struct{}

func (CrossEntropy) Name() string { return "crossentropy" }

func (CrossEntropy) Calculate(x, t *mat.VecDense) float64 {
	var sum float64
	for i := 0; i < x.Len(); i++ {
		xi, ti := x.AtVec(i), t.AtVec(i)
		term := -ti*math.Log(xi) - (1-ti)*math.Log(1-xi)
		if math.IsInf(term, 0) || math.IsNaN(term) {
			continue
		}
		sum += term
	}
	return sum
}

// CalculateDerivative returns (x-t)/(x*(1-x)) elementwise. Saturated outputs
// divide by zero and the resulting +-Inf/NaN entries flow into the gradients
// unchanged.
func (CrossEntropy) CalculateDerivative(x, t *mat.VecDense) *mat.VecDense {
	d := mat.NewVecDense(x.Len(), nil)
	for i := 0; i < x.Len(); i++ {
		xi := x.AtVec(i)
		d.SetVec(i, (xi-t.AtVec(i))/(xi*(1-xi)))
	}
	return d
}
