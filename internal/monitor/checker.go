package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/edvin/statusboard/internal/model"
)

// ErrUnknownKind is returned for item kinds the runner cannot poll,
// such as external items whose state only arrives through the API.
var ErrUnknownKind = errors.New("no checker for item kind")

// Checker probes one target and reports the resulting state. Checkers
// never write into the tree themselves; the runner does.
type Checker interface {
	Check(ctx context.Context) model.State
}

// NewChecker returns the checker for a monitor kind and target.
func NewChecker(kind, target string, timeout time.Duration) (Checker, error) {
	switch kind {
	case model.KindHTTP:
		return &HTTPChecker{
			Target: target,
			Client: &http.Client{Timeout: timeout},
		}, nil
	case model.KindTCP:
		return &TCPChecker{Target: target, Timeout: timeout}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// HTTPChecker probes a URL with a GET request. Any 2xx or 3xx response
// is Ok, any other response is Failed, and an unreachable target is
// Error.
type HTTPChecker struct {
	Target string
	Client *http.Client
}

func (c *HTTPChecker) Check(ctx context.Context) model.State {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Target, nil)
	if err != nil {
		return model.StateError
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return model.StateError
	}
	defer resp.Body.Close()

	if resp.StatusCode < 400 {
		return model.StateOK
	}
	return model.StateFailed
}

// TCPChecker probes a host:port address. A successful dial is Ok, a
// refused or timed-out dial is Failed.
type TCPChecker struct {
	Target  string
	Timeout time.Duration
}

func (c *TCPChecker) Check(ctx context.Context) model.State {
	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.Target)
	if err != nil {
		return model.StateFailed
	}
	conn.Close()
	return model.StateOK
}
