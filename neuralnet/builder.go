package neuralnet

// ActivationKind enumerates the known activation functions.
type ActivationKind int

const (
	ActivationLogistic ActivationKind = iota
	ActivationSoftmax
)

// ActivationKindByName maps a persisted name back to its kind.
func ActivationKindByName(name string) (ActivationKind, error) {
	switch name {
	case Logistic{}.Name():
		return ActivationLogistic, nil
	case Softmax{}.Name():
		return ActivationSoftmax, nil
	}
	return 0, &UnknownNameError{Kind: "activation function", Name: name}
}

// New creates the activation function backing the kind.
func (k ActivationKind) New() (ActivationFunction, error) {
	switch k {
	case ActivationLogistic:
		return Logistic{}, nil
	case ActivationSoftmax:
		return Softmax{}, nil
	}
	return nil, &UnimplementedError{Kind: "activation function"}
}

// CostKind enumerates the known cost functions.
type CostKind int

const (
	CostQuadratic CostKind = iota
	CostCrossEntropy
)

// CostKindByName maps a persisted name back to its kind.
func CostKindByName(name string) (CostKind, error) {
	switch name {
	case Quadratic{}.Name():
		return CostQuadratic, nil
	case CrossEntropy{}.Name():
		return CostCrossEntropy, nil
	}
	return 0, &UnknownNameError{Kind: "cost function", Name: name}
}

// New creates the cost function backing the kind.
func (k CostKind) New() (CostFunction, error) {
	switch k {
	case CostQuadratic:
		return Quadratic{}, nil
	case CostCrossEntropy:
		return CrossEntropy{}, nil
	}
	return nil, &UnimplementedError{Kind: "cost function"}
}

// OptimizerKind enumerates the known optimizers.
type OptimizerKind int

const (
	OptimizerSGD OptimizerKind = iota
)

// OptimizerKindByName maps a persisted name back to its kind.
func OptimizerKindByName(name string) (OptimizerKind, error) {
	if name == (&StochasticGradientDescent{}).Name() {
		return OptimizerSGD, nil
	}
	return 0, &UnknownNameError{Kind: "optimizer", Name: name}
}

// New creates the optimizer backing the kind.
func (k OptimizerKind) New() (Optimizer, error) {
	switch k {
	case OptimizerSGD:
		return &StochasticGradientDescent{}, nil
	}
	return nil, &UnimplementedError{Kind: "optimizer"}
}

// NetworkBuilder assembles a network from enum selections. The zero value
// selects the quadratic cost and the stochastic gradient descent optimizer.
type NetworkBuilder struct {
	inputSize  int
	cost       CostKind
	optimizer  OptimizerKind
	trueRandom bool
}

func NewNetworkBuilder() *NetworkBuilder { return &NetworkBuilder{} }

// SetInputSize sets the network's feature-vector length.
func (b *NetworkBuilder) SetInputSize(size int) *NetworkBuilder {
	b.inputSize = size
	return b
}

// SetCostFunction selects the network's cost function.
func (b *NetworkBuilder) SetCostFunction(kind CostKind) *NetworkBuilder {
	b.cost = kind
	return b
}

// SetOptimizer selects the network's optimizer.
func (b *NetworkBuilder) SetOptimizer(kind OptimizerKind) *NetworkBuilder {
	b.optimizer = kind
	return b
}

// SetTrueRandom controls whether the RNG seed comes from the clock or from
// the fixed reproducibility constant.
func (b *NetworkBuilder) SetTrueRandom(trueRandom bool) *NetworkBuilder {
	b.trueRandom = trueRandom
	return b
}

// Build creates an empty network (no layers within).
func (b *NetworkBuilder) Build() (*Network, error) {
	cost, err := b.cost.New()
	if err != nil {
		return nil, err
	}
	optimizer, err := b.optimizer.New()
	if err != nil {
		return nil, err
	}
	return NewNetwork(b.inputSize, cost, optimizer, b.trueRandom), nil
}

// NewLayerOf creates a layer with a fresh function object of the given kind.
func NewLayerOf(size int, kind ActivationKind) (*Layer, error) {
	activation, err := kind.New()
	if err != nil {
		return nil, err
	}
	return NewLayer(size, activation), nil
}
