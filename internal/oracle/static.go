package oracle

import (
	"context"
	"sync"
)

// maxRecordedRequests bounds the request log kept for inspection.
const maxRecordedRequests = 32

// StaticOracle returns a canned reply. Useful for dry runs and tests.
type StaticOracle struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests []Request
}

func NewStaticOracle(reply string) *StaticOracle {
	return &StaticOracle{reply: reply}
}

func (o *StaticOracle) Name() string { return "static" }

func (o *StaticOracle) SetReply(reply string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reply = reply
	o.err = nil
}

func (o *StaticOracle) SetError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

func (o *StaticOracle) Invoke(ctx context.Context, req Request) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.requests) == maxRecordedRequests {
		copy(o.requests, o.requests[1:])
		o.requests = o.requests[:maxRecordedRequests-1]
	}
	o.requests = append(o.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if o.err != nil {
		return "", o.err
	}
	return o.reply, nil
}

// Requests returns the most recent requests, oldest first, up to
// maxRecordedRequests of them.
func (o *StaticOracle) Requests() []Request {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Request(nil), o.requests...)
}
