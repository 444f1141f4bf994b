// Submission retry policy shared by every Engine implementation that can
// report a transient "try again" result from a single enqueue attempt.
// Grounded on the teacher's pack-mate jra3-system-agent, whose intake
// worker wraps a single fallible attempt in cenkalti/backoff/v5.
package dispatch

import (
	"context"

	"github.com/cenkalti/backoff/v5"

	"github.com/intel/dto/api"
)

// errSubmitBusy marks an enqueue attempt that should be retried; it never
// escapes submitWithRetry.
var errSubmitBusy = api.NewError(api.ErrCodeResourceExhausted, "submission queue busy")

// submitWithRetry drives attempt up to MaxSubmitRetries times with no
// delay between tries, matching the original's tight ENQCMD retry loop:
// a fixed-step policy, not exponential backoff, since a busy portal is
// expected to drain within a handful of spins or not at all.
func submitWithRetry(attempt func() (ok bool)) (api.Outcome, error) {
	op := func() (struct{}, error) {
		if attempt() {
			return struct{}{}, nil
		}
		return struct{}{}, errSubmitBusy
	}

	_, err := backoff.Retry(context.Background(), op,
		backoff.WithBackOff(backoff.NewConstantBackOff(0)),
		backoff.WithMaxTries(MaxSubmitRetries))
	if err != nil {
		return api.Retries, api.ErrRetriesExhausted
	}
	return api.Success, nil
}
