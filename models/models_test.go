// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/deepctr/autodiff"
	"github.com/born-ml/deepctr/backend/cpu"
	"github.com/born-ml/deepctr/inputs"
	"github.com/born-ml/deepctr/models"
	"github.com/born-ml/deepctr/optim"
)

func columns() []inputs.FeatureColumn {
	return []inputs.FeatureColumn{
		inputs.SparseFeat{FeatureName: "user_id", VocabularySize: 4},
		inputs.SparseFeat{FeatureName: "item_id", VocabularySize: 3},
		inputs.SparseFeat{FeatureName: "category", VocabularySize: 2},
		inputs.DenseFeat{FeatureName: "price", Dimension: 1},
	}
}

func batch(t *testing.T) (*inputs.Batch, []float32) {
	t.Helper()
	b, err := inputs.NewBatch(columns(), map[string][]float32{
		"user_id":  {0, 1, 2, 3},
		"item_id":  {2, 1, 0, 2},
		"category": {1, 0, 1, 0},
		"price":    {0.9, 0.1, 0.8, 0.2},
	})
	require.NoError(t, err)
	return b, []float32{1, 0, 1, 0}
}

func TestPublicFiBiNET(t *testing.T) {
	backend := autodiff.New(cpu.New())
	cfg := models.DefaultFiBiNETConfig()
	cfg.LinearFeatureColumns = columns()
	cfg.DNNFeatureColumns = columns()
	cfg.DNNHiddenUnits = []int{8}

	model, err := models.NewFiBiNET(cfg, backend)
	require.NoError(t, err)

	x, labels := batch(t)
	scores := models.Predict(model, x)
	require.Len(t, scores, 4)
	for _, s := range scores {
		assert.Greater(t, s, float32(0))
		assert.Less(t, s, float32(1))
	}

	opt := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: 0.01})
	loss, err := models.Step(model, opt, x, labels)
	require.NoError(t, err)
	assert.Greater(t, loss, float32(0))
}

func TestPublicConfigurationErrors(t *testing.T) {
	backend := autodiff.New(cpu.New())

	cfg := models.DefaultDCNConfig()
	cfg.DNNFeatureColumns = columns()
	cfg.CrossNum = 0
	cfg.DNNHiddenUnits = nil
	_, err := models.NewDCN(cfg, backend)
	assert.ErrorIs(t, err, models.ErrUnimplementedConfiguration)

	xcfg := models.DefaultXDeepFMConfig()
	xcfg.DNNFeatureColumns = columns()
	xcfg.CINLayerSize = []int{3, 4}
	_, err = models.NewXDeepFM(xcfg, backend)
	assert.ErrorIs(t, err, models.ErrInvalidConfiguration)
}
