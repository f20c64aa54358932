package main

import (
	"flag"
	"log"

	"gonet/config"
	"gonet/dataset"
	"gonet/neuralnet"
)

func main() {
	cfgPath := flag.String("config", "configs/mnist.yaml", "Path to YAML config")
	trainingFile := flag.String("training-file", "", "Override training CSV path")
	validationFile := flag.String("validation-file", "", "Override validation CSV path")
	testingFile := flag.String("testing-file", "", "Override testing CSV path")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	batchSize := flag.Int("batch-size", 0, "Mini-batch size")
	load := flag.Bool("load", false, "Load the network from network_file instead of building it")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		TrainingFile:   *trainingFile,
		ValidationFile: *validationFile,
		TestingFile:    *testingFile,
		Epochs:         *epochs,
		BatchSize:      *batchSize,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	network, err := buildNetwork(cfg, *load)
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	network.SetLogger(log.Default())
	log.Printf("network: %v", network)

	opts := dataset.Options{
		SplitIndex:    cfg.InputSize,
		Normalization: cfg.Normalization,
	}
	if network.OutputSize() > 1 {
		opts.OneHotClasses = network.OutputSize()
	}

	training, err := dataset.ReadCSV(cfg.TrainingFile, opts)
	if err != nil {
		log.Fatalf("load training set: %v", err)
	}
	validation, err := dataset.ReadCSV(cfg.ValidationFile, opts)
	if err != nil {
		log.Fatalf("load validation set: %v", err)
	}
	log.Printf("training=%d validation=%d", len(training), len(validation))

	err = network.Train(training, validation, cfg.Epochs, cfg.BatchSize, cfg.LearningRate, cfg.Regularization)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	if cfg.NetworkFile != "" && !*load {
		if err := neuralnet.Save(network, cfg.NetworkFile); err != nil {
			log.Fatalf("save network: %v", err)
		}
		log.Printf("saved network to %s", cfg.NetworkFile)
	}

	if cfg.TestingFile != "" {
		testing, err := dataset.ReadCSV(cfg.TestingFile, opts)
		if err != nil {
			log.Fatalf("load testing set: %v", err)
		}
		correct, cost := network.CalcAccuracyAndCost(testing, cfg.Regularization)
		n := float64(len(testing))
		log.Printf("testing: accuracy=%.4f cost=%.4f", float64(correct)/n, cost/n)
	}
}

func buildNetwork(cfg *config.Config, load bool) (*neuralnet.Network, error) {
	if load {
		return neuralnet.Load(cfg.NetworkFile)
	}

	costKind, err := neuralnet.CostKindByName(cfg.CostFunction)
	if err != nil {
		return nil, err
	}
	optimizerKind, err := neuralnet.OptimizerKindByName(cfg.Optimizer)
	if err != nil {
		return nil, err
	}
	network, err := neuralnet.NewNetworkBuilder().
		SetInputSize(cfg.InputSize).
		SetCostFunction(costKind).
		SetOptimizer(optimizerKind).
		SetTrueRandom(cfg.TrueRandom).
		Build()
	if err != nil {
		return nil, err
	}

	for _, ls := range cfg.Layers {
		kind, err := neuralnet.ActivationKindByName(ls.Activation)
		if err != nil {
			return nil, err
		}
		layer, err := neuralnet.NewLayerOf(ls.Size, kind)
		if err != nil {
			return nil, err
		}
		network.AddLayer(layer, true)
	}
	return network, nil
}
