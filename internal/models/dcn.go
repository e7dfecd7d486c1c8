package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// DCN is the Deep & Cross Network. The flattened embeddings feed a cross
// network and a DNN side by side; their outputs are concatenated and
// projected to the logit. DCN has no linear part.
type DCN[B tensor.Backend] struct {
	*BaseModel[B]

	crossNet *layers.CrossNet[B] // nil when CrossNum == 0
	dnn      *layers.DNN[B]      // nil without hidden units
	final    *nn.Linear[B]
}

// NewDCN builds a DCN. At least one of CrossNum and DNNHiddenUnits must be
// non-zero.
func NewDCN[B tensor.Backend](cfg DCNConfig, backend B) (*DCN[B], error) {
	const name = "DCN"
	if cfg.CrossNum < 0 {
		return nil, invalid(name, "cross number must not be negative, got %d", cfg.CrossNum)
	}
	if cfg.CrossNum == 0 && len(cfg.DNNHiddenUnits) == 0 {
		return nil, unimplemented(name, "neither cross layers nor DNN hidden units")
	}

	shared := cfg.Config
	shared.LinearFeatureColumns = nil
	base, err := newBaseModel(name, shared, backend)
	if err != nil {
		return nil, err
	}

	m := &DCN[B]{BaseModel: base}
	inputDim := inputs.ComputeInputDim(cfg.DNNFeatureColumns, cfg.EmbeddingSize)

	finalIn := 0
	if cfg.CrossNum > 0 {
		m.crossNet, err = layers.NewCrossNet(inputDim, cfg.CrossNum, base.rng, backend)
		if err != nil {
			return nil, err
		}
		base.register(m.crossNet.Parameters()...)
		base.AddRegularization(m.crossNet.RegularizableParameters(), cfg.L2RegCross)
		finalIn += m.crossNet.OutputDim()
	}
	if len(cfg.DNNHiddenUnits) > 0 {
		m.dnn, err = base.newDNN(inputDim)
		if err != nil {
			return nil, err
		}
		finalIn += m.dnn.OutputDim()
	}

	m.final = base.newLogitLinear(finalIn)
	base.AddRegularization([]*nn.Parameter[B]{m.final.Weight()}, cfg.L2RegLinear)
	return m, nil
}

// Forward scores batch.
func (m *DCN[B]) Forward(batch *inputs.Batch) *tensor.Tensor[float32, B] {
	sparse, dense := m.dnnInputs(batch)
	x := inputs.CombinedDNNInput(sparse, dense)

	var stack []*tensor.Tensor[float32, B]
	if m.crossNet != nil {
		stack = append(stack, m.crossNet.Forward(x))
	}
	if m.dnn != nil {
		stack = append(stack, m.dnn.Forward(x))
	}
	return m.out.Forward(m.final.Forward(tensor.Cat(stack, 1)))
}
