package consumer

import "time"

// SetRetryDelays shortens the retry delays for a test.
func SetRetryDelays(initial, maxDelay time.Duration) (restore func()) {
	prevInitial, prevMax := retryInitial, retryMax
	retryInitial, retryMax = initial, maxDelay
	return func() { retryInitial, retryMax = prevInitial, prevMax }
}
