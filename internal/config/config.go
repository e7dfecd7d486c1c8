// Package config loads model documents from YAML and builds models from
// them through a name → builder registry.
//
// A document names the architecture, the feature columns and the
// hyperparameters. Omitted hyperparameters keep the architecture defaults:
//
//	model: xdeepfm
//	task: binary
//	seed: 1024
//	embedding_dim: 4
//	features:
//	  - {name: C1, type: sparse, vocabulary_size: 10}
//	  - {name: I1, type: dense, dimension: 1}
//	params:
//	  dnn_hidden_units: [8]
//	  cin_layer_size: [4, 4]
//	  cin_split_half: true
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/models"
)

// ErrInvalidDocument is returned for documents that do not describe a model.
var ErrInvalidDocument = errors.New("invalid model document")

// Document is a parsed model description.
type Document struct {
	Model        string    `yaml:"model"`
	Task         string    `yaml:"task"`
	Seed         *int64    `yaml:"seed"`
	EmbeddingDim int       `yaml:"embedding_dim"`
	Features     []Feature `yaml:"features"`
	// LinearFeatures restricts the linear part to the named features.
	// When absent every feature is used by both parts.
	LinearFeatures []string `yaml:"linear_features"`
	Params         Params   `yaml:"params"`
}

// Feature describes one feature column.
type Feature struct {
	Name           string `yaml:"name"`
	Type           string `yaml:"type"` // sparse or dense
	VocabularySize int    `yaml:"vocabulary_size"`
	Dimension      int    `yaml:"dimension"`
	EmbeddingName  string `yaml:"embedding_name"`
}

// Params holds the hyperparameters. Nil fields keep the defaults.
type Params struct {
	DNNHiddenUnits []int    `yaml:"dnn_hidden_units"`
	DNNDropout     *float64 `yaml:"dnn_dropout"`
	DNNActivation  string   `yaml:"dnn_activation"`
	DNNUseBN       *bool    `yaml:"dnn_use_bn"`
	L2RegLinear    *float64 `yaml:"l2_reg_linear"`
	L2RegEmbedding *float64 `yaml:"l2_reg_embedding"`
	L2RegDNN       *float64 `yaml:"l2_reg_dnn"`
	InitStd        *float64 `yaml:"init_std"`

	CrossNum   *int     `yaml:"cross_num"`
	L2RegCross *float64 `yaml:"l2_reg_cross"`

	CINLayerSize  []int    `yaml:"cin_layer_size"`
	CINSplitHalf  *bool    `yaml:"cin_split_half"`
	CINActivation string   `yaml:"cin_activation"`
	L2RegCIN      *float64 `yaml:"l2_reg_cin"`

	BilinearType   string `yaml:"bilinear_type"`
	ReductionRatio *int   `yaml:"reduction_ratio"`

	UseFM *bool `yaml:"use_fm"`

	BiDropout *float64 `yaml:"bi_dropout"`
}

// Load reads and parses a YAML document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Model == "" {
		return nil, fmt.Errorf("missing model name: %w", ErrInvalidDocument)
	}
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("no features: %w", ErrInvalidDocument)
	}
	return &doc, nil
}

// Columns converts the features to feature columns, in document order.
func (d *Document) Columns() ([]inputs.FeatureColumn, error) {
	columns := make([]inputs.FeatureColumn, 0, len(d.Features))
	for _, f := range d.Features {
		switch strings.ToLower(f.Type) {
		case "sparse":
			columns = append(columns, inputs.SparseFeat{
				FeatureName:    f.Name,
				VocabularySize: f.VocabularySize,
				EmbeddingName:  f.EmbeddingName,
			})
		case "dense":
			columns = append(columns, inputs.DenseFeat{FeatureName: f.Name, Dimension: max(1, f.Dimension)})
		default:
			return nil, fmt.Errorf("feature %q: unknown type %q: %w", f.Name, f.Type, ErrInvalidDocument)
		}
	}
	if err := inputs.Validate(columns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return columns, nil
}

// linearColumns selects the linear part's columns from columns.
func (d *Document) linearColumns(columns []inputs.FeatureColumn) ([]inputs.FeatureColumn, error) {
	if d.LinearFeatures == nil {
		return columns, nil
	}
	byName := make(map[string]inputs.FeatureColumn, len(columns))
	for _, c := range columns {
		byName[c.Name()] = c
	}
	linear := make([]inputs.FeatureColumn, 0, len(d.LinearFeatures))
	for _, name := range d.LinearFeatures {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("linear feature %q is not declared: %w", name, ErrInvalidDocument)
		}
		linear = append(linear, c)
	}
	return linear, nil
}

// ApplyTo overlays the document onto cfg, which carries the architecture
// defaults.
func (d *Document) ApplyTo(cfg *models.Config) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	linear, err := d.linearColumns(columns)
	if err != nil {
		return err
	}
	cfg.DNNFeatureColumns = columns
	cfg.LinearFeatureColumns = linear

	if d.Task != "" {
		task, err := layers.ParseTask(d.Task)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		cfg.Task = task
	}
	if d.Seed != nil {
		cfg.Seed = *d.Seed
	}
	if d.EmbeddingDim != 0 {
		cfg.EmbeddingSize = d.EmbeddingDim
	}

	p := d.Params
	if p.DNNHiddenUnits != nil {
		cfg.DNNHiddenUnits = p.DNNHiddenUnits
	}
	if p.DNNActivation != "" {
		cfg.DNNActivation = p.DNNActivation
	}
	setFloat(&cfg.DNNDropout, p.DNNDropout)
	setBool(&cfg.DNNUseBN, p.DNNUseBN)
	setFloat(&cfg.L2RegLinear, p.L2RegLinear)
	setFloat(&cfg.L2RegEmbedding, p.L2RegEmbedding)
	setFloat(&cfg.L2RegDNN, p.L2RegDNN)
	setFloat(&cfg.InitStd, p.InitStd)
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
