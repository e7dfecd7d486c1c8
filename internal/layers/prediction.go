package layers

import (
	"strings"

	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Task selects the output transform of a model.
type Task string

// Supported tasks.
const (
	TaskBinary     Task = "binary"
	TaskRegression Task = "regression"
)

// ParseTask parses "binary" or "regression".
func ParseTask(s string) (Task, error) {
	switch t := Task(strings.ToLower(s)); t {
	case TaskBinary, TaskRegression:
		return t, nil
	default:
		return "", invalid("prediction", "unknown task %q", s)
	}
}

// PredictionLayer adds an optional learned global bias to the logit and
// applies the task transform: sigmoid for binary, identity for regression.
type PredictionLayer[B tensor.Backend] struct {
	task Task
	bias *nn.Parameter[B] // [1], nil when disabled
}

// NewPredictionLayer creates the output head for task.
func NewPredictionLayer[B tensor.Backend](task Task, useBias bool, backend B) (*PredictionLayer[B], error) {
	if task != TaskBinary && task != TaskRegression {
		return nil, invalid("prediction", "unknown task %q", string(task))
	}
	p := &PredictionLayer[B]{task: task}
	if useBias {
		p.bias = nn.NewParameter("prediction.bias", nn.Zeros(tensor.Shape{1}, backend))
	}
	return p, nil
}

// Forward transforms a [batch, 1] logit into predictions.
func (p *PredictionLayer[B]) Forward(logit *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := logit
	if p.bias != nil {
		out = out.Add(p.bias.Tensor())
	}
	if p.task == TaskBinary {
		out = out.Sigmoid()
	}
	return out
}

// Task returns the configured task.
func (p *PredictionLayer[B]) Task() Task {
	return p.task
}

// Parameters returns [bias] when the bias is enabled.
func (p *PredictionLayer[B]) Parameters() []*nn.Parameter[B] {
	if p.bias == nil {
		return nil
	}
	return []*nn.Parameter[B]{p.bias}
}
