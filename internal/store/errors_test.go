package store

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyErr_Nil(t *testing.T) {
	assert.NoError(t, classifyErr("op", nil))
}

func TestClassifyErr_Connectivity(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"deadline", context.DeadlineExceeded},
		{"canceled", context.Canceled},
		{"net closed", net.ErrClosed},
		{"net timeout", &net.DNSError{IsTimeout: true}},
		{"pg connection failure", &pgconn.PgError{Code: "08006"}},
		{"pg shutdown", &pgconn.PgError{Code: "57P01"}},
		{"pg serialization failure", &pgconn.PgError{Code: "40001"}},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyErr("op", tt.err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.ErrorIs(t, err, tt.err, "original error must stay in the chain")
		})
	}
}

func TestClassifyErr_DataErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}},
		{"plain error", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyErr("op", tt.err)
			assert.NotErrorIs(t, err, ErrUnavailable)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

// Guard against the lock acquisition path misclassifying a slow advisory
// lock wait: lock waits respect the caller's deadline, so the resulting
// DeadlineExceeded must map to ErrUnavailable rather than data corruption.
func TestClassifyErr_LockWaitTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := classifyErr("locking session", ctx.Err())
	assert.ErrorIs(t, err, ErrUnavailable)
}
