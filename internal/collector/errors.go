package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/loganintech/go-reddit/v2/reddit"
	"github.com/qepting91/reddit-spider/internal/domain"
)

// StatusError is a non-200 answer from the public endpoints.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit public access status: %d", e.StatusCode)
}

func classify(op, target string, err error) error {
	if err == nil {
		return nil
	}
	return domain.NewFetchError(kindOf(err), op, target, err)
}

// kindOf maps transport failures to the crawler's error kinds: network and
// server-side trouble is transient, client-side refusals are fatal.
func kindOf(err error) domain.ErrorKind {
	if errors.Is(err, context.Canceled) {
		return domain.KindUnknown
	}

	var rl *reddit.RateLimitError
	if errors.As(err, &rl) {
		return domain.KindNetworkTransient
	}
	var er *reddit.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return statusKind(er.Response.StatusCode)
	}
	var se *StatusError
	if errors.As(err, &se) {
		return statusKind(se.StatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return domain.KindNetworkTransient
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return domain.KindNetworkTransient
	}
	return domain.KindUnknown
}

func statusKind(code int) domain.ErrorKind {
	switch {
	case code >= 500, code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return domain.KindNetworkTransient
	case code >= 400:
		return domain.KindNetworkFatal
	default:
		return domain.KindUnknown
	}
}
