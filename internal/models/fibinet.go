package models

import (
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// FiBiNET reweights the field embeddings with SENET, takes bilinear
// interactions of both the reweighted and the raw embeddings with one shared
// bilinear layer, and feeds them with the dense values to a DNN:
//
//	logit = linear + dnn_linear(DNN([Bi(SENET(E)), Bi(E), dense]))
type FiBiNET[B tensor.Backend] struct {
	*BaseModel[B]

	senet     *layers.SENET[B]
	bilinear  *layers.BilinearInteraction[B]
	dnn       *layers.DNN[B]
	dnnLinear *nn.Linear[B]
}

// NewFiBiNET builds a FiBiNET. It needs at least two sparse DNN columns and
// a non-empty DNN.
func NewFiBiNET[B tensor.Backend](cfg FiBiNETConfig, backend B) (*FiBiNET[B], error) {
	const name = "FiBiNET"
	if len(cfg.DNNHiddenUnits) == 0 {
		return nil, unimplemented(name, "the bilinear outputs need DNN hidden units")
	}
	bilinearType := cfg.BilinearType
	if bilinearType == "" {
		bilinearType = layers.BilinearTypeInteraction
	}

	base, err := newBaseModel(name, cfg.Config, backend)
	if err != nil {
		return nil, err
	}
	m := &FiBiNET[B]{BaseModel: base}

	fields := base.fieldSize()
	m.senet, err = layers.NewSENET(fields, cfg.ReductionRatio, layers.SqueezeMean, base.rng, backend)
	if err != nil {
		return nil, err
	}
	m.bilinear, err = layers.NewBilinearInteraction(fields, cfg.EmbeddingSize, bilinearType, base.rng, backend)
	if err != nil {
		return nil, err
	}
	base.register(m.senet.Parameters()...)
	base.register(m.bilinear.Parameters()...)

	m.dnn, err = base.newDNN(2*m.bilinear.OutputDim() + inputs.DenseDim(cfg.DNNFeatureColumns))
	if err != nil {
		return nil, err
	}
	m.dnnLinear = base.newLogitLinear(m.dnn.OutputDim())
	return m, nil
}

// Forward scores batch.
func (m *FiBiNET[B]) Forward(batch *inputs.Batch) *tensor.Tensor[float32, B] {
	sparse, dense := m.dnnInputs(batch)
	x := tensor.Cat(sparse, 1) // [rows, F, E]

	senetBi := m.bilinear.Forward(m.senet.Forward(x))
	bi := m.bilinear.Forward(x)
	pairs := tensor.Cat([]*tensor.Tensor[float32, B]{senetBi, bi}, 1) // [rows, F(F-1), E]

	deep := m.dnn.Forward(inputs.CombinedDNNInput([]*tensor.Tensor[float32, B]{pairs}, dense))
	return m.out.Forward(m.linear.Forward(batch).Add(m.dnnLinear.Forward(deep)))
}
