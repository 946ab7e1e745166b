package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for store operations, checked with errors.Is().
var (
	// ErrUnavailable indicates the backing store could not be reached or a
	// transaction aborted. Recoverable: the caller may retry.
	ErrUnavailable = errors.New("message store unavailable")

	// ErrInvalidMessage indicates a message payload could not be
	// serialized or deserialized.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptySessionID indicates an operation was called without a
	// session id.
	ErrEmptySessionID = errors.New("empty session id")
)

// classifyErr wraps connectivity-class failures in ErrUnavailable so
// callers get one retryable sentinel regardless of the underlying driver
// error. Other errors pass through unchanged apart from the context string.
func classifyErr(op string, err error) error {
	if err == nil {
		return nil
	}

	if isConnectivityErr(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isConnectivityErr reports whether err looks like a transport or
// availability problem rather than a data problem.
func isConnectivityErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 — connection exception; class 57 — operator
		// intervention (shutdown, crash); 40001/40P01 — aborted
		// serialization/deadlock, retryable.
		switch {
		case len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "57"),
			pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		}
	}

	return pgconn.Timeout(err)
}
