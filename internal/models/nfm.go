package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// NFM pools the field embeddings with bi-interaction pooling and learns
// higher-order terms on top with a DNN:
//
//	logit = linear + dnn_linear(DNN([dropout(BiPool(E)), dense]))
type NFM[B tensor.Backend] struct {
	*BaseModel[B]

	pooling   *layers.BiInteractionPooling[B]
	biDropout *nn.Dropout[B]
	dnn       *layers.DNN[B]
	dnnLinear *nn.Linear[B]
}

// NewNFM builds an NFM. It needs sparse DNN columns and a non-empty DNN.
func NewNFM[B tensor.Backend](cfg NFMConfig, backend B) (*NFM[B], error) {
	const name = "NFM"
	if len(cfg.DNNHiddenUnits) == 0 {
		return nil, unimplemented(name, "the pooled interactions need DNN hidden units")
	}
	if cfg.BiDropout < 0 || cfg.BiDropout >= 1 {
		return nil, invalid(name, "bi-interaction dropout must be in [0, 1), got %v", cfg.BiDropout)
	}

	base, err := newBaseModel(name, cfg.Config, backend)
	if err != nil {
		return nil, err
	}
	if base.fieldSize() == 0 {
		return nil, invalid(name, "bi-interaction pooling needs sparse DNN columns")
	}

	m := &NFM[B]{
		BaseModel: base,
		pooling:   layers.NewBiInteractionPooling[B](),
		biDropout: nn.NewDropout[B](cfg.BiDropout, base.rng),
	}
	base.modal = append(base.modal, m.biDropout)

	m.dnn, err = base.newDNN(cfg.EmbeddingSize + inputs.DenseDim(cfg.DNNFeatureColumns))
	if err != nil {
		return nil, err
	}
	m.dnnLinear = base.newLogitLinear(m.dnn.OutputDim())
	return m, nil
}

// Forward scores batch.
func (m *NFM[B]) Forward(batch *inputs.Batch) *tensor.Tensor[float32, B] {
	sparse, dense := m.dnnInputs(batch)

	pooled := m.biDropout.Forward(m.pooling.Forward(tensor.Cat(sparse, 1))) // [rows, 1, E]
	deep := m.dnn.Forward(inputs.CombinedDNNInput([]*tensor.Tensor[float32, B]{pooled}, dense))
	return m.out.Forward(m.linear.Forward(batch).Add(m.dnnLinear.Forward(deep)))
}
