package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
)

// Config holds the options shared by every model.
type Config struct {
	// LinearFeatureColumns are scored by the linear part. DCN ignores them.
	LinearFeatureColumns []inputs.FeatureColumn
	// DNNFeatureColumns are embedded and fed to the interaction layers and
	// the deep tower.
	DNNFeatureColumns []inputs.FeatureColumn

	EmbeddingSize  int
	DNNHiddenUnits []int

	L2RegLinear    float64
	L2RegEmbedding float64
	L2RegDNN       float64

	InitStd float64 // std of the normal init of embeddings and DNN weights
	Seed    int64

	DNNDropout    float64
	DNNActivation string
	DNNUseBN      bool

	Task layers.Task
}

// DefaultConfig returns the shared defaults: embedding size 8, a (128, 128)
// tower, 1e-5 decay on linear and embedding weights, init std 1e-4, seed
// 1024 and binary classification.
func DefaultConfig() Config {
	return Config{
		EmbeddingSize:  8,
		DNNHiddenUnits: []int{128, 128},
		L2RegLinear:    1e-5,
		L2RegEmbedding: 1e-5,
		InitStd:        1e-4,
		Seed:           1024,
		DNNActivation:  "relu",
		Task:           layers.TaskBinary,
	}
}

// DCNConfig configures a Deep & Cross Network.
type DCNConfig struct {
	Config
	CrossNum   int
	L2RegCross float64
}

// DefaultDCNConfig returns two cross layers on top of DefaultConfig.
func DefaultDCNConfig() DCNConfig {
	return DCNConfig{Config: DefaultConfig(), CrossNum: 2, L2RegCross: 1e-5}
}

// XDeepFMConfig configures xDeepFM.
type XDeepFMConfig struct {
	Config
	CINLayerSize  []int
	CINSplitHalf  bool
	CINActivation string
	L2RegCIN      float64
}

// DefaultXDeepFMConfig returns a (256, 256) tower and a (128, 128) split
// CIN.
func DefaultXDeepFMConfig() XDeepFMConfig {
	cfg := DefaultConfig()
	cfg.DNNHiddenUnits = []int{256, 256}
	return XDeepFMConfig{
		Config:        cfg,
		CINLayerSize:  []int{128, 128},
		CINSplitHalf:  true,
		CINActivation: "relu",
	}
}

// FiBiNETConfig configures FiBiNET.
type FiBiNETConfig struct {
	Config
	BilinearType   layers.BilinearType
	ReductionRatio int
}

// DefaultFiBiNETConfig returns per-pair bilinear weights and reduction
// ratio 3.
func DefaultFiBiNETConfig() FiBiNETConfig {
	return FiBiNETConfig{
		Config:         DefaultConfig(),
		BilinearType:   layers.BilinearTypeInteraction,
		ReductionRatio: 3,
	}
}

// DeepFMConfig configures DeepFM.
type DeepFMConfig struct {
	Config
	UseFM bool
}

// DefaultDeepFMConfig enables the FM term.
func DefaultDeepFMConfig() DeepFMConfig {
	return DeepFMConfig{Config: DefaultConfig(), UseFM: true}
}

// NFMConfig configures NFM.
type NFMConfig struct {
	Config
	BiDropout float64 // dropout on the pooled interaction vector
}

// DefaultNFMConfig returns DefaultConfig without bi-interaction dropout.
func DefaultNFMConfig() NFMConfig {
	return NFMConfig{Config: DefaultConfig()}
}
