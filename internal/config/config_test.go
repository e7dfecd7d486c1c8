package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/backend/cpu"
	"github.com/born-ml/deepctr/internal/config"
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/models"
)

type adBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

const xdeepfmDoc = `
model: xDeepFM
task: binary
seed: 7
embedding_dim: 4
features:
  - {name: C1, type: sparse, vocabulary_size: 10}
  - {name: C2, type: sparse, vocabulary_size: 5}
  - {name: I1, type: dense, dimension: 1}
linear_features: [C1, I1]
params:
  dnn_hidden_units: [8]
  dnn_dropout: 0.1
  cin_layer_size: [4, 2]
  cin_split_half: true
  l2_reg_cin: 0.001
`

func TestParseDocument(t *testing.T) {
	doc, err := config.Parse([]byte(xdeepfmDoc))
	require.NoError(t, err)

	assert.Equal(t, "xDeepFM", doc.Model)
	require.NotNil(t, doc.Seed)
	assert.Equal(t, int64(7), *doc.Seed)
	assert.Equal(t, []int{4, 2}, doc.Params.CINLayerSize)
	require.NotNil(t, doc.Params.CINSplitHalf)
	assert.True(t, *doc.Params.CINSplitHalf)
	assert.Nil(t, doc.Params.CrossNum)

	columns, err := doc.Columns()
	require.NoError(t, err)
	assert.Equal(t, []inputs.FeatureColumn{
		inputs.SparseFeat{FeatureName: "C1", VocabularySize: 10},
		inputs.SparseFeat{FeatureName: "C2", VocabularySize: 5},
		inputs.DenseFeat{FeatureName: "I1", Dimension: 1},
	}, columns)
}

func TestApplyToKeepsDefaults(t *testing.T) {
	doc, err := config.Parse([]byte(xdeepfmDoc))
	require.NoError(t, err)

	cfg := models.DefaultConfig()
	require.NoError(t, doc.ApplyTo(&cfg))

	assert.Equal(t, 4, cfg.EmbeddingSize)
	assert.Equal(t, []int{8}, cfg.DNNHiddenUnits)
	assert.InDelta(t, 0.1, cfg.DNNDropout, 1e-12)
	assert.InDelta(t, 1e-5, cfg.L2RegEmbedding, 1e-12, "default kept")
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, layers.TaskBinary, cfg.Task)
	assert.Len(t, cfg.DNNFeatureColumns, 3)
	assert.Len(t, cfg.LinearFeatureColumns, 2)
}

func TestParseErrors(t *testing.T) {
	_, err := config.Parse([]byte("features: [{name: C1, type: sparse, vocabulary_size: 2}]"))
	assert.ErrorIs(t, err, config.ErrInvalidDocument)

	_, err = config.Parse([]byte("model: dcn"))
	assert.ErrorIs(t, err, config.ErrInvalidDocument)

	_, err = config.Parse([]byte("model: [unclosed"))
	assert.Error(t, err)

	doc, err := config.Parse([]byte("model: dcn\nfeatures: [{name: C1, type: categorical}]"))
	require.NoError(t, err)
	_, err = doc.Columns()
	assert.ErrorIs(t, err, config.ErrInvalidDocument)

	doc, err = config.Parse([]byte("model: dcn\nfeatures: [{name: C1, type: sparse}]"))
	require.NoError(t, err)
	_, err = doc.Columns()
	assert.ErrorIs(t, err, inputs.ErrInvalidFeature)
}

func TestDefaultRegistryBuildsEveryModel(t *testing.T) {
	registry := config.DefaultRegistry[adBackend]()
	assert.Equal(t, []string{"dcn", "deepfm", "fibinet", "nfm", "xdeepfm"}, registry.Names())

	doc, err := config.Parse([]byte(xdeepfmDoc))
	require.NoError(t, err)

	for _, name := range registry.Names() {
		doc.Model = name
		model, err := registry.Build(doc, autodiff.New(cpu.New()))
		require.NoError(t, err, name)
		assert.NotEmpty(t, model.Parameters(), name)
	}
}

func TestBuildXDeepFMFromDocument(t *testing.T) {
	doc, err := config.Parse([]byte(xdeepfmDoc))
	require.NoError(t, err)

	model, err := config.DefaultRegistry[adBackend]().Build(doc, autodiff.New(cpu.New()))
	require.NoError(t, err)
	assert.Equal(t, "xDeepFM", model.Name())

	batch, err := inputs.NewBatch(model.FeatureColumns(), map[string][]float32{
		"C1": {1, 9}, "C2": {0, 4}, "I1": {0.2, 0.8},
	})
	require.NoError(t, err)
	assert.Len(t, models.Predict(model, batch), 2)
}

func TestBuildErrors(t *testing.T) {
	registry := config.DefaultRegistry[adBackend]()
	doc, err := config.Parse([]byte(xdeepfmDoc))
	require.NoError(t, err)

	doc.Model = "widedeep"
	_, err = registry.Build(doc, autodiff.New(cpu.New()))
	assert.ErrorIs(t, err, config.ErrUnknownModel)

	doc.Model = "dcn"
	zero := 0
	doc.Params.CrossNum = &zero
	doc.Params.DNNHiddenUnits = []int{}
	_, err = registry.Build(doc, autodiff.New(cpu.New()))
	assert.ErrorIs(t, err, models.ErrUnimplementedConfiguration)

	doc.Model = "fibinet"
	doc.Params.DNNHiddenUnits = []int{4}
	doc.Params.BilinearType = "outer"
	_, err = registry.Build(doc, autodiff.New(cpu.New()))
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)

	doc.Params.BilinearType = ""
	doc.LinearFeatures = []string{"missing"}
	_, err = registry.Build(doc, autodiff.New(cpu.New()))
	assert.ErrorIs(t, err, config.ErrInvalidDocument)
}

func TestRegisterCustomBuilder(t *testing.T) {
	registry := config.NewRegistry[adBackend]()
	registry.Register("Tiny", func(doc *config.Document, b adBackend) (models.Model[adBackend], error) {
		cfg := models.DefaultDCNConfig()
		cfg.DNNHiddenUnits = nil
		if err := doc.ApplyTo(&cfg.Config); err != nil {
			return nil, err
		}
		m, err := models.NewDCN(cfg, b)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	assert.Equal(t, []string{"tiny"}, registry.Names())

	doc, err := config.Parse([]byte("model: TINY\nfeatures: [{name: C1, type: sparse, vocabulary_size: 3}]"))
	require.NoError(t, err)
	model, err := registry.Build(doc, autodiff.New(cpu.New()))
	require.NoError(t, err)
	assert.Equal(t, "DCN", model.Name())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(xdeepfmDoc), 0o600))

	doc, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xDeepFM", doc.Model)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
