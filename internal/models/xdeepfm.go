package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// XDeepFM combines a linear part, a compressed interaction network over the
// field embeddings and a DNN over the flattened inputs:
//
//	logit = linear + cin_linear(CIN(E)) + dnn_linear(DNN(x))
//
// The CIN and DNN terms are present only when configured.
type XDeepFM[B tensor.Backend] struct {
	*BaseModel[B]

	cin       *layers.CIN[B] // nil with an empty CIN schedule
	cinLinear *nn.Linear[B]
	dnn       *layers.DNN[B] // nil without hidden units
	dnnLinear *nn.Linear[B]
}

// NewXDeepFM builds an xDeepFM. At least one of CINLayerSize and
// DNNHiddenUnits must be non-empty.
func NewXDeepFM[B tensor.Backend](cfg XDeepFMConfig, backend B) (*XDeepFM[B], error) {
	const name = "xDeepFM"
	if len(cfg.CINLayerSize) == 0 && len(cfg.DNNHiddenUnits) == 0 {
		return nil, unimplemented(name, "neither CIN layers nor DNN hidden units")
	}

	base, err := newBaseModel(name, cfg.Config, backend)
	if err != nil {
		return nil, err
	}
	m := &XDeepFM[B]{BaseModel: base}

	if len(cfg.DNNHiddenUnits) > 0 {
		m.dnn, err = base.newDNN(inputs.ComputeInputDim(cfg.DNNFeatureColumns, cfg.EmbeddingSize))
		if err != nil {
			return nil, err
		}
		m.dnnLinear = base.newLogitLinear(m.dnn.OutputDim())
		base.AddRegularization([]*nn.Parameter[B]{m.dnnLinear.Weight()}, cfg.L2RegDNN)
	}
	if len(cfg.CINLayerSize) > 0 {
		activation := cfg.CINActivation
		if activation == "" {
			activation = "relu"
		}
		m.cin, err = layers.NewCIN(base.fieldSize(), cfg.CINLayerSize, activation, cfg.CINSplitHalf, base.rng, backend)
		if err != nil {
			return nil, err
		}
		base.register(m.cin.Parameters()...)
		base.AddRegularization(m.cin.RegularizableParameters(), cfg.L2RegCIN)
		m.cinLinear = base.newLogitLinear(m.cin.FeatureMapNum())
	}
	return m, nil
}

// Forward scores batch.
func (m *XDeepFM[B]) Forward(batch *inputs.Batch) *tensor.Tensor[float32, B] {
	sparse, dense := m.dnnInputs(batch)

	logit := m.linear.Forward(batch)
	if m.cin != nil {
		logit = logit.Add(m.cinLinear.Forward(m.cin.Forward(tensor.Cat(sparse, 1))))
	}
	if m.dnn != nil {
		x := inputs.CombinedDNNInput(sparse, dense)
		logit = logit.Add(m.dnnLinear.Forward(m.dnn.Forward(x)))
	}
	return m.out.Forward(logit)
}
