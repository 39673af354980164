package webform

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrSubmissionInFlight is returned when a submission starts while another
// one is still pending or the success state has not reverted yet.
var ErrSubmissionInFlight = errors.New("webform: submission already in flight")

// StatusView renders the submission lifecycle. A terminal or browser front
// end implements it; the submitter only decides which state is shown.
type StatusView interface {
	Loading()
	Success(receipt *Receipt)
	Failure(err *SubmitError)
	// Reset restores the idle state after the success display interval.
	Reset()
}

// RevertDelay is how long the success state stays on screen before the form
// control reverts to idle.
const RevertDelay = 5 * time.Second

// Submitter drives a StatusView through loading, success and error states.
// At most one submission is in flight per user action.
type Submitter struct {
	client      *Client
	view        StatusView
	revertDelay time.Duration
	busy        atomic.Bool
}

func NewSubmitter(client *Client, view StatusView) *Submitter {
	return &Submitter{client: client, view: view, revertDelay: RevertDelay}
}

// Submit runs one submission. On success the view reverts to idle after the
// configured delay; on failure the control is re-enabled immediately.
func (s *Submitter) Submit(ctx context.Context, fields Fields) (*Receipt, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}

	s.view.Loading()

	receipt, err := s.client.Submit(ctx, fields)
	if err != nil {
		var submitErr *SubmitError
		if !errors.As(err, &submitErr) {
			submitErr = &SubmitError{Category: CategoryNetwork, Message: err.Error(), Hint: contactHint}
		}
		s.view.Failure(submitErr)
		s.busy.Store(false)
		return nil, err
	}

	s.view.Success(receipt)
	time.AfterFunc(s.revertDelay, func() {
		s.view.Reset()
		s.busy.Store(false)
	})
	return receipt, nil
}
