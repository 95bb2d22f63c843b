package predictor

import (
	"context"
	"errors"
	"fmt"
)

// Fixed user-facing messages.
const (
	MsgValidation   = "Please fill in all fields with valid numbers"
	MsgConnectivity = "Error: Could not connect to the API. Make sure the API server is running."
)

// Status tags the display region.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Outcome is what one action leaves in the display region. Every new
// Outcome replaces the previous one entirely.
type Outcome struct {
	Message string
	Status  Status
	// Err is the underlying failure, nil on success. Not shown to users.
	Err error
}

// IsSuccess reports whether the outcome carries a classification.
func (o Outcome) IsSuccess() bool {
	return o.Status == StatusSuccess
}

// Classifier is the awaitable prediction call. *Client implements it.
type Classifier interface {
	Predict(ctx context.Context, req PredictionRequest) (*PredictionResult, error)
}

// SuccessOutcome renders a classification.
func SuccessOutcome(r *PredictionResult) Outcome {
	return Outcome{
		Message: fmt.Sprintf("Cluster: %s\nDescription: %s", r.ClusterLabel(), r.ClusterDescription),
		Status:  StatusSuccess,
	}
}

// FailureOutcome maps an error to its fixed message. Validation failures get
// the validation message; everything else is reported as a connectivity
// problem.
func FailureOutcome(err error) Outcome {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return Outcome{Message: MsgValidation, Status: StatusError, Err: err}
	}
	return Outcome{Message: MsgConnectivity, Status: StatusError, Err: err}
}

// Run performs one complete action: validate, then classify. At most one
// request is sent and it is only sent when all inputs are valid.
func Run(ctx context.Context, c Classifier, in Inputs) Outcome {
	req, err := ParseInputs(in)
	if err != nil {
		return FailureOutcome(err)
	}

	result, err := c.Predict(ctx, req)
	if err != nil {
		return FailureOutcome(err)
	}
	return SuccessOutcome(result)
}
