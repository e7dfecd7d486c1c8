package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// DeepFM sums a linear part, the factorization-machine pairwise term and a
// DNN over the same embeddings.
type DeepFM[B tensor.Backend] struct {
	*BaseModel[B]

	fm        *layers.FM[B] // nil when UseFM is false
	dnn       *layers.DNN[B]
	dnnLinear *nn.Linear[B]
}

// NewDeepFM builds a DeepFM. At least one of UseFM and DNNHiddenUnits must
// be set.
func NewDeepFM[B tensor.Backend](cfg DeepFMConfig, backend B) (*DeepFM[B], error) {
	const name = "DeepFM"
	if !cfg.UseFM && len(cfg.DNNHiddenUnits) == 0 {
		return nil, unimplemented(name, "neither FM nor DNN hidden units")
	}

	base, err := newBaseModel(name, cfg.Config, backend)
	if err != nil {
		return nil, err
	}
	m := &DeepFM[B]{BaseModel: base}

	if cfg.UseFM {
		if base.fieldSize() == 0 {
			return nil, invalid(name, "FM needs sparse DNN columns")
		}
		m.fm = layers.NewFM[B]()
	}
	if len(cfg.DNNHiddenUnits) > 0 {
		m.dnn, err = base.newDNN(inputs.ComputeInputDim(cfg.DNNFeatureColumns, cfg.EmbeddingSize))
		if err != nil {
			return nil, err
		}
		m.dnnLinear = base.newLogitLinear(m.dnn.OutputDim())
		base.AddRegularization([]*nn.Parameter[B]{m.dnnLinear.Weight()}, cfg.L2RegDNN)
	}
	return m, nil
}

// Forward scores batch.
func (m *DeepFM[B]) Forward(batch *inputs.Batch) *tensor.Tensor[float32, B] {
	sparse, dense := m.dnnInputs(batch)

	logit := m.linear.Forward(batch)
	if m.fm != nil {
		logit = logit.Add(m.fm.Forward(tensor.Cat(sparse, 1)))
	}
	if m.dnn != nil {
		logit = logit.Add(m.dnnLinear.Forward(m.dnn.Forward(inputs.CombinedDNNInput(sparse, dense))))
	}
	return m.out.Forward(logit)
}
