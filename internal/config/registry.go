package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/models"
	"github.com/born-ml/deepctr/internal/tensor"
)

// ErrUnknownModel is returned by Build for unregistered model names.
var ErrUnknownModel = errors.New("unknown model")

// Builder constructs a model from a document.
type Builder[B tensor.Backend] func(doc *Document, backend B) (models.Model[B], error)

// Registry maps lower-case model names to builders.
type Registry[B tensor.Backend] struct {
	mu       sync.RWMutex
	builders map[string]Builder[B]
}

// NewRegistry returns an empty registry.
func NewRegistry[B tensor.Backend]() *Registry[B] {
	return &Registry[B]{builders: make(map[string]Builder[B])}
}

// DefaultRegistry returns a registry with every built-in architecture:
// dcn, xdeepfm, fibinet, deepfm and nfm.
func DefaultRegistry[B tensor.Backend]() *Registry[B] {
	r := NewRegistry[B]()
	r.Register("dcn", buildDCN[B])
	r.Register("xdeepfm", buildXDeepFM[B])
	r.Register("fibinet", buildFiBiNET[B])
	r.Register("deepfm", buildDeepFM[B])
	r.Register("nfm", buildNFM[B])
	return r
}

// Register adds or replaces the builder for name.
func (r *Registry[B]) Register(name string, builder Builder[B]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[strings.ToLower(name)] = builder
}

// Names returns the registered names in sorted order.
func (r *Registry[B]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the model the document names.
func (r *Registry[B]) Build(doc *Document, backend B) (models.Model[B], error) {
	r.mu.RLock()
	builder, ok := r.builders[strings.ToLower(doc.Model)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", doc.Model, ErrUnknownModel)
	}
	m, err := builder(doc, backend)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", doc.Model, err)
	}
	return m, nil
}

func buildDCN[B tensor.Backend](doc *Document, backend B) (models.Model[B], error) {
	cfg := models.DefaultDCNConfig()
	if err := doc.ApplyTo(&cfg.Config); err != nil {
		return nil, err
	}
	setInt(&cfg.CrossNum, doc.Params.CrossNum)
	setFloat(&cfg.L2RegCross, doc.Params.L2RegCross)
	m, err := models.NewDCN(cfg, backend)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildXDeepFM[B tensor.Backend](doc *Document, backend B) (models.Model[B], error) {
	cfg := models.DefaultXDeepFMConfig()
	if err := doc.ApplyTo(&cfg.Config); err != nil {
		return nil, err
	}
	if doc.Params.CINLayerSize != nil {
		cfg.CINLayerSize = doc.Params.CINLayerSize
	}
	if doc.Params.CINActivation != "" {
		cfg.CINActivation = doc.Params.CINActivation
	}
	setBool(&cfg.CINSplitHalf, doc.Params.CINSplitHalf)
	setFloat(&cfg.L2RegCIN, doc.Params.L2RegCIN)
	m, err := models.NewXDeepFM(cfg, backend)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildFiBiNET[B tensor.Backend](doc *Document, backend B) (models.Model[B], error) {
	cfg := models.DefaultFiBiNETConfig()
	if err := doc.ApplyTo(&cfg.Config); err != nil {
		return nil, err
	}
	if doc.Params.BilinearType != "" {
		typ, err := layers.ParseBilinearType(doc.Params.BilinearType)
		if err != nil {
			return nil, err
		}
		cfg.BilinearType = typ
	}
	setInt(&cfg.ReductionRatio, doc.Params.ReductionRatio)
	m, err := models.NewFiBiNET(cfg, backend)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildDeepFM[B tensor.Backend](doc *Document, backend B) (models.Model[B], error) {
	cfg := models.DefaultDeepFMConfig()
	if err := doc.ApplyTo(&cfg.Config); err != nil {
		return nil, err
	}
	setBool(&cfg.UseFM, doc.Params.UseFM)
	m, err := models.NewDeepFM(cfg, backend)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func buildNFM[B tensor.Backend](doc *Document, backend B) (models.Model[B], error) {
	cfg := models.DefaultNFMConfig()
	if err := doc.ApplyTo(&cfg.Config); err != nil {
		return nil, err
	}
	setFloat(&cfg.BiDropout, doc.Params.BiDropout)
	m, err := models.NewNFM(cfg, backend)
	if err != nil {
		return nil, err
	}
	return m, nil
}
