package categorize

import "time"

// RetryPolicy bounds classifier retries. Sleep is injectable so tests do
// not wait out real backoff delays.
type RetryPolicy struct {
	MaxRetries int
	Sleep      func(time.Duration)
}

func (p RetryPolicy) pause(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}

	time.Sleep(d)
}

// retryDelay is the fixed pause between attempts after timeouts and
// malformed replies.
const retryDelay = time.Second

// backoffDelay grows exponentially per attempt: 1s, 2s, 4s, ...
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}
