package neuralnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationKindRoundTrip(t *testing.T) {
	for _, kind := range []ActivationKind{ActivationLogistic, ActivationSoftmax} {
		activation, err := kind.New()
		require.NoError(t, err)
		back, err := ActivationKindByName(activation.Name())
		require.NoError(t, err)
		assert.Equal(t, kind, back)
	}
}

func TestCostKindRoundTrip(t *testing.T) {
	for _, kind := range []CostKind{CostQuadratic, CostCrossEntropy} {
		cost, err := kind.New()
		require.NoError(t, err)
		back, err := CostKindByName(cost.Name())
		require.NoError(t, err)
		assert.Equal(t, kind, back)
	}
}

func TestOptimizerKindRoundTrip(t *testing.T) {
	optimizer, err := OptimizerSGD.New()
	require.NoError(t, err)
	back, err := OptimizerKindByName(optimizer.Name())
	require.NoError(t, err)
	assert.Equal(t, OptimizerSGD, back)
}

func TestKindByNameUnknown(t *testing.T) {
	var unknown *UnknownNameError

	_, err := ActivationKindByName("relu")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, `unknown activation function name "relu"`, err.Error())

	_, err = CostKindByName("hinge")
	require.ErrorAs(t, err, &unknown)

	_, err = OptimizerKindByName("adam")
	require.ErrorAs(t, err, &unknown)
}

func TestKindNewUnimplemented(t *testing.T) {
	var unimplemented *UnimplementedError

	_, err := ActivationKind(99).New()
	require.ErrorAs(t, err, &unimplemented)

	_, err = CostKind(99).New()
	require.ErrorAs(t, err, &unimplemented)

	_, err = OptimizerKind(99).New()
	require.ErrorAs(t, err, &unimplemented)
}

func TestBuilderDefaults(t *testing.T) {
	network, err := NewNetworkBuilder().SetInputSize(4).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, network.InputSize())
	assert.Equal(t, 0, network.NumLayers())
	assert.Equal(t, "quadratic", network.CostFunction().Name())
}

func TestNewLayerOf(t *testing.T) {
	layer, err := NewLayerOf(5, ActivationSoftmax)
	require.NoError(t, err)
	assert.Equal(t, 5, layer.Size())
	assert.Equal(t, "softmax", layer.Activation().Name())

	_, err = NewLayerOf(5, ActivationKind(99))
	require.Error(t, err)
}
