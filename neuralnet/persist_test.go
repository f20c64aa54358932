package neuralnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	original, err := NewNetworkBuilder().
		SetInputSize(3).
		SetCostFunction(CostCrossEntropy).
		SetOptimizer(OptimizerSGD).
		Build()
	require.NoError(t, err)
	original.AddLayer(NewLayer(4, Logistic{}), true)
	original.AddLayer(NewLayer(2, Logistic{}), true)

	path := filepath.Join(t.TempDir(), "network.txt")
	require.NoError(t, Save(original, path))

	restored, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, original.InputSize(), restored.InputSize())
	assert.Equal(t, original.NumLayers(), restored.NumLayers())
	assert.Equal(t, original.CostFunction().Name(), restored.CostFunction().Name())

	inputs := []*mat.VecDense{
		mat.NewVecDense(3, []float64{0.1, -0.7, 1.3}),
		mat.NewVecDense(3, []float64{0, 0, 0}),
		mat.NewVecDense(3, []float64{2.5, 0.4, -0.9}),
	}
	for _, x := range inputs {
		want := original.feedForward(x)
		got := restored.feedForward(x)
		require.Equal(t, want.Len(), got.Len())
		for i := 0; i < want.Len(); i++ {
			// Full-precision text encoding round-trips bit for bit.
			assert.Equal(t, want.AtVec(i), got.AtVec(i))
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))

	var resource *ResourceError
	require.ErrorAs(t, err, &resource)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	write := func(content string) string {
		path := filepath.Join(t.TempDir(), "network.txt")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	cases := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"malformed header", "3\n"},
		{"unknown cost", "3,hinge\n"},
		{"bad input size", "three,quadratic\n"},
		{"bad bias value", "2,quadratic\n1,x\n1,2,3,4\nlogistic\n"},
		{"weights do not tile", "2,quadratic\n1,2\n1,2,3\nlogistic\n"},
		{"unknown activation", "2,quadratic\n1,2\n1,2,3,4\nrelu\n"},
		{"truncated triplet", "2,quadratic\n1,2\n1,2,3,4\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(write(tc.content))
			require.Error(t, err)
		})
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	network, err := NewNetworkBuilder().SetInputSize(1).Build()
	require.NoError(t, err)

	err = Save(network, filepath.Join(t.TempDir(), "missing", "network.txt"))
	var resource *ResourceError
	require.ErrorAs(t, err, &resource)
}
