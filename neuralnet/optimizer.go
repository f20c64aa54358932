package neuralnet

import (
	"golang.org/x/exp/rand"
)

// ParameterUpdater is the capability an optimizer needs from the network:
// one gradient update for one batch.
type ParameterUpdater interface {
	UpdateParameters(batch []Sample, lrRatio, regRatio float64) error
}

// Optimizer drives one full pass over the training set per Optimize call.
type Optimizer interface {
	Name() string
	// Initialize hands the optimizer the network's RNG stream and its
	// parameter-update hook. Called once, at network construction.
	Initialize(rng *rand.Rand, target ParameterUpdater)
	// Optimize shuffles training in place and feeds nBatches contiguous
	// batches of batchSize samples to the update hook.
	Optimize(training []Sample, nBatches, batchSize int, lrRatio, regRatio float64) error
}

// StochasticGradientDescent is plain mini-batch SGD: shuffle, slice, update.
// It holds no batch-level state between epochs.
type StochasticGradientDescent struct {
	rng    *rand.Rand
	target ParameterUpdater
}

func (*StochasticGradientDescent) Name() string { return "stochastic" }

func (o *StochasticGradientDescent) Initialize(rng *rand.Rand, target ParameterUpdater) {
	o.rng = rng
	o.target = target
}

// Optimize runs one epoch. Batches are the non-overlapping slices
// [i*batchSize, (i+1)*batchSize) of the shuffled set; samples beyond
// nBatches*batchSize sit out this epoch.
func (o *StochasticGradientDescent) Optimize(training []Sample, nBatches, batchSize int, lrRatio, regRatio float64) error {
	o.rng.Shuffle(len(training), func(i, j int) {
		training[i], training[j] = training[j], training[i]
	})

	for i := 0; i < nBatches; i++ {
		batch := training[i*batchSize : (i+1)*batchSize]
		if err := o.target.UpdateParameters(batch, lrRatio, regRatio); err != nil {
			return err
		}
	}
	return nil
}
