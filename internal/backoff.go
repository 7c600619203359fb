package internal

import "time"

// BackoffFlags select the wait profile of a Backoff.
type BackoffFlags uint8

const (
	// BackoffRegisterPoll is for polling self-clearing register bits such as a PHY reset.
	BackoffRegisterPoll BackoffFlags = 1 << iota
)

const backoffMinWait = time.Millisecond

func backoffMaxWait(priority BackoffFlags) time.Duration {
	if priority&BackoffRegisterPoll != 0 {
		return 50 * time.Millisecond
	}
	return time.Second
}

func NewBackoff(priority BackoffFlags) Backoff {
	return Backoff{
		wait:    uint32(backoffMinWait),
		maxWait: uint32(backoffMaxWait(priority)),
	}
}

// A Backoff with a non-zero MaxWait is ready for use.
type Backoff struct {
	// wait defines the amount of time that Miss will wait on next call.
	wait uint32
	// Maximum allowable value for Wait.
	maxWait uint32
}

// Miss sleeps for eb.Wait and increases eb.Wait exponentially.
// It returns the time slept.
func (eb *Backoff) Miss() time.Duration {
	if eb.maxWait == 0 {
		panic("MaxWait cannot be zero")
	}
	slept := time.Duration(eb.wait)
	time.Sleep(slept)
	eb.wait *= 2
	if eb.wait > eb.maxWait {
		eb.wait = eb.maxWait
	}
	return slept
}
