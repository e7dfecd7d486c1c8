package ops

import "github.com/born-ml/deepctr/internal/tensor"

// LogOp represents output = log(x); grad_x = grad / x.
type LogOp struct{ unaryOp }

// NewLogOp creates a new LogOp.
func NewLogOp(x, output *tensor.RawTensor) *LogOp {
	return &LogOp{unaryOp{input: x, output: output}}
}

// Backward computes grad / x.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// SqrtOp represents output = sqrt(x); grad_x = grad / (2 * output).
type SqrtOp struct{ unaryOp }

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(x, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{unaryOp{input: x, output: output}}
}

// Backward computes grad / (2 * sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, backend.MulScalar(op.output, 2))}
}

// ReLUOp represents output = max(0, x).
//
// The derivative at exactly 0 is taken as 0.
type ReLUOp struct{ unaryOp }

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(x, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{unaryOp{input: x, output: output}}
}

// Backward masks the gradient where x <= 0.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := floatAt(op.input)
	mask := fillLike(op.input, backend.Device(), func(i int) float64 {
		if x(i) > 0 {
			return 1
		}
		return 0
	})
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// SigmoidOp represents output = σ(x); grad_x = grad * σ(x) * (1 - σ(x)).
type SigmoidOp struct{ unaryOp }

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(x, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{unaryOp{input: x, output: output}}
}

// Backward computes the sigmoid derivative from the saved output.
func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y := floatAt(op.output)
	deriv := fillLike(op.output, backend.Device(), func(i int) float64 {
		return y(i) * (1 - y(i))
	})
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}

// TanhOp represents output = tanh(x); grad_x = grad * (1 - tanh²(x)).
type TanhOp struct{ unaryOp }

// NewTanhOp creates a new TanhOp.
func NewTanhOp(x, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{unaryOp{input: x, output: output}}
}

// Backward computes the tanh derivative from the saved output.
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	y := floatAt(op.output)
	deriv := fillLike(op.output, backend.Device(), func(i int) float64 {
		return 1 - y(i)*y(i)
	})
	return []*tensor.RawTensor{backend.Mul(outputGrad, deriv)}
}
