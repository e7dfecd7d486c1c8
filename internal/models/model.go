// Package models assembles the CTR architectures from the interaction
// layers: DCN, xDeepFM, FiBiNET, DeepFM and NFM.
//
// Every model embeds its DNN feature columns, optionally scores the linear
// feature columns, runs its interaction branches and maps the summed logit
// through the prediction head. Branch selection is validated once at
// construction; Forward runs a single composed path.
//
// Example:
//
//	cfg := models.DefaultXDeepFMConfig()
//	cfg.LinearFeatureColumns = columns
//	cfg.DNNFeatureColumns = columns
//	model, err := models.NewXDeepFM(cfg, autodiff.New(cpu.New()))
//	if err != nil {
//	    return err
//	}
//	scores := models.Predict(model, batch) // one probability per row
package models

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Model is a CTR model over a tensor backend.
type Model[B tensor.Backend] interface {
	// Name returns the architecture name, e.g. "xDeepFM".
	Name() string
	// Forward scores a batch, returning predictions of shape [rows, 1].
	Forward(batch *inputs.Batch) *tensor.Tensor[float32, B]
	// Parameters returns every trainable tensor in a fixed order.
	Parameters() []*nn.Parameter[B]
	// RegularizationLoss returns the weighted L2 penalty as a scalar.
	RegularizationLoss() *tensor.Tensor[float32, B]
	// SetTraining switches dropout and batch-norm behavior.
	SetTraining(training bool)
	// Training reports the current mode.
	Training() bool
	// FeatureColumns returns the columns in batch layout order.
	FeatureColumns() []inputs.FeatureColumn
	// Task returns the prediction task.
	Task() layers.Task
	// Backend returns the backend the model's tensors live on.
	Backend() B
}

type regularization[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	l2     float64
}

// BaseModel holds what every architecture shares: the embedding tables,
// the linear part, the prediction head and the L2 registry. Architectures
// embed it and register their own parameters and train-mode modules.
type BaseModel[B tensor.Backend] struct {
	name    string
	cfg     Config
	backend B
	rng     *rand.Rand

	columns    []inputs.FeatureColumn
	index      *inputs.FeatureIndex
	embeddings *inputs.EmbeddingDict[B]
	linear     *inputs.LinearModel[B]
	out        *layers.PredictionLayer[B]

	params   []*nn.Parameter[B]
	regs     []regularization[B]
	modal    []nn.TrainingAware
	training bool
}

// newBaseModel validates the shared configuration and builds the shared
// parts. Parameters are created from a single rand seeded with cfg.Seed, in
// construction order, so equal configs yield identical models.
func newBaseModel[B tensor.Backend](name string, cfg Config, backend B) (*BaseModel[B], error) {
	if cfg.EmbeddingSize <= 0 {
		return nil, invalid(name, "embedding size must be positive, got %d", cfg.EmbeddingSize)
	}
	if len(cfg.DNNFeatureColumns) == 0 {
		return nil, invalid(name, "no DNN feature columns")
	}
	if cfg.InitStd <= 0 {
		return nil, invalid(name, "init std must be positive, got %v", cfg.InitStd)
	}
	if cfg.Task == "" {
		cfg.Task = layers.TaskBinary
	}

	m := &BaseModel[B]{
		name:     name,
		cfg:      cfg,
		backend:  backend,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		columns:  inputs.Combine(cfg.LinearFeatureColumns, cfg.DNNFeatureColumns),
		training: true,
	}
	if err := inputs.Validate(m.columns); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.index = inputs.NewFeatureIndex(m.columns)

	var err error
	m.embeddings, err = inputs.NewEmbeddingDict(cfg.DNNFeatureColumns, cfg.EmbeddingSize, cfg.InitStd, m.rng, backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.linear, err = inputs.NewLinearModel(cfg.LinearFeatureColumns, m.index, cfg.InitStd, m.rng, backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	m.out, err = layers.NewPredictionLayer(cfg.Task, true, backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	m.register(m.embeddings.Parameters()...)
	m.register(m.linear.Parameters()...)
	m.register(m.out.Parameters()...)
	m.AddRegularization(m.embeddings.Parameters(), cfg.L2RegEmbedding)
	m.AddRegularization(m.linear.Parameters(), cfg.L2RegLinear)
	return m, nil
}

func (m *BaseModel[B]) register(params ...*nn.Parameter[B]) {
	m.params = append(m.params, params...)
}

// newDNN builds the deep tower from the shared options and registers it.
func (m *BaseModel[B]) newDNN(inputDim int) (*layers.DNN[B], error) {
	dnn, err := layers.NewDNN(inputDim, m.cfg.DNNHiddenUnits, layers.DNNConfig{
		Activation:  m.cfg.DNNActivation,
		DropoutRate: m.cfg.DNNDropout,
		UseBN:       m.cfg.DNNUseBN,
		InitStd:     m.cfg.InitStd,
	}, m.rng, m.backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}
	m.register(dnn.Parameters()...)
	m.modal = append(m.modal, dnn)
	m.AddRegularization(dnn.RegularizableParameters(), m.cfg.L2RegDNN)
	return dnn, nil
}

// newLogitLinear builds and registers a bias-free [in -> 1] projection.
func (m *BaseModel[B]) newLogitLinear(in int) *nn.Linear[B] {
	l := nn.NewLinear(in, 1, false, m.rng, m.backend)
	m.register(l.Parameters()...)
	return l
}

// AddRegularization adds l2 * Σ w² over params to RegularizationLoss. A
// zero l2 is ignored.
func (m *BaseModel[B]) AddRegularization(params []*nn.Parameter[B], l2 float64) {
	if l2 == 0 || len(params) == 0 {
		return
	}
	m.regs = append(m.regs, regularization[B]{params: params, l2: l2})
}

// RegularizationLoss returns Σ l2 * Σ w² over the registered groups as a
// differentiable scalar.
func (m *BaseModel[B]) RegularizationLoss() *tensor.Tensor[float32, B] {
	var total *tensor.Tensor[float32, B]
	for _, reg := range m.regs {
		for _, p := range reg.params {
			w := p.Tensor()
			term := w.Mul(w).Sum().MulScalar(float32(reg.l2))
			if total == nil {
				total = term
			} else {
				total = total.Add(term)
			}
		}
	}
	if total == nil {
		return tensor.Zeros[float32](tensor.Shape{}, m.backend)
	}
	return total
}

// Name returns the architecture name.
func (m *BaseModel[B]) Name() string { return m.name }

// Parameters returns every trainable tensor: embeddings, linear weights,
// prediction bias, then the architecture's own layers.
func (m *BaseModel[B]) Parameters() []*nn.Parameter[B] {
	return append([]*nn.Parameter[B](nil), m.params...)
}

// SetTraining switches every dropout and batch-norm module.
func (m *BaseModel[B]) SetTraining(training bool) {
	m.training = training
	for _, mod := range m.modal {
		mod.SetTraining(training)
	}
}

// Training reports whether the model is in training mode.
func (m *BaseModel[B]) Training() bool { return m.training }

// FeatureColumns returns the linear and DNN columns, deduplicated, in batch
// layout order.
func (m *BaseModel[B]) FeatureColumns() []inputs.FeatureColumn {
	return append([]inputs.FeatureColumn(nil), m.columns...)
}

// Task returns the prediction task.
func (m *BaseModel[B]) Task() layers.Task { return m.cfg.Task }

// Backend returns the model's backend.
func (m *BaseModel[B]) Backend() B { return m.backend }

// NewBatch lays values out in the model's column order.
func (m *BaseModel[B]) NewBatch(values map[string][]float32) (*inputs.Batch, error) {
	return inputs.NewBatch(m.columns, values)
}

// dnnInputs embeds the DNN columns of batch.
func (m *BaseModel[B]) dnnInputs(batch *inputs.Batch) (sparse, dense []*tensor.Tensor[float32, B]) {
	return inputs.FromFeatureColumns(batch, m.cfg.DNNFeatureColumns, m.index, m.embeddings, m.backend)
}

// fieldSize is the number of sparse DNN columns, i.e. the F of the
// [batch, F, E] embedding stack.
func (m *BaseModel[B]) fieldSize() int {
	return len(inputs.SparseFeatures(m.cfg.DNNFeatureColumns))
}

// Predict scores batch in inference mode without recording on an autodiff
// tape. The model's training mode is restored afterwards.
func Predict[B tensor.Backend](m Model[B], batch *inputs.Batch) []float32 {
	if bc, ok := any(m.Backend()).(autodiff.BackwardCapable); ok {
		if tape := bc.GetTape(); tape.IsRecording() {
			tape.StopRecording()
			defer tape.StartRecording()
		}
	}
	if m.Training() {
		m.SetTraining(false)
		defer m.SetTraining(true)
	}
	return append([]float32(nil), m.Forward(batch).Data()...)
}
