package models

import (
	"fmt"

	"github.com/born-ml/deepctr/internal/autodiff"
	"github.com/born-ml/deepctr/internal/inputs"
	"github.com/born-ml/deepctr/internal/layers"
	"github.com/born-ml/deepctr/internal/nn"
	"github.com/born-ml/deepctr/internal/optim"
	"github.com/born-ml/deepctr/internal/tensor"
)

// Loss returns the task loss of predictions against targets: binary
// cross-entropy for TaskBinary, mean squared error for TaskRegression.
func Loss[B tensor.Backend](task layers.Task, predictions, targets *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if task == layers.TaskRegression {
		return nn.NewMSELoss[B]().Forward(predictions, targets)
	}
	return nn.NewBCELoss[B]().Forward(predictions, targets)
}

// Step runs one optimization step of m on batch and returns the task loss
// before the update. The minimized objective is the task loss plus
// m.RegularizationLoss(). The tape of the backend is cleared first.
func Step[B autodiff.BackwardCapable](m Model[B], opt optim.Optimizer, batch *inputs.Batch, labels []float32) (float32, error) {
	if len(labels) != batch.Rows() {
		return 0, fmt.Errorf("%s: %d labels for %d rows", m.Name(), len(labels), batch.Rows())
	}
	backend := m.Backend()
	targets, err := tensor.FromSlice(labels, tensor.Shape{len(labels), 1}, backend)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", m.Name(), err)
	}

	tape := backend.GetTape()
	tape.Clear()
	tape.StartRecording()
	loss := Loss(m.Task(), m.Forward(batch), targets)
	objective := loss.Add(m.RegularizationLoss())
	grads := autodiff.Backward(objective, backend)
	tape.StopRecording()

	opt.Step(grads)
	opt.ZeroGrad()
	tape.Clear()
	return loss.Item(), nil
}
