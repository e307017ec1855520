package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Retrying wraps an Items backend with a per-operation timeout and a single
// retry on transient errors. Errors that persist after the retry are
// reported as ErrUnavailable.
type Retrying struct {
	next      Items
	timeout   time.Duration
	transient func(error) bool
}

var _ Items = (*Retrying)(nil)

// WithRetry wraps next. A zero timeout disables the per-operation deadline.
func WithRetry(next Items, timeout time.Duration, transient func(error) bool) *Retrying {
	return &Retrying{next: next, timeout: timeout, transient: transient}
}

// retry runs op, retrying it once if it fails transiently.
func retry[T any](ctx context.Context, r *Retrying, name string, op func(context.Context) (T, error)) (T, error) {
	return attempt(ctx, r, name, func(error) bool { return true }, op)
}

// retryWrite is retry for writes that must not run twice. A deadline leaves
// the outcome unknown, so only failures that prove the statement did not
// apply (busy, locked) are retried.
func retryWrite[T any](ctx context.Context, r *Retrying, name string, op func(context.Context) (T, error)) (T, error) {
	return attempt(ctx, r, name, func(err error) bool {
		return !errors.Is(err, context.DeadlineExceeded)
	}, op)
}

func attempt[T any](ctx context.Context, r *Retrying, name string, again func(error) bool, op func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for n := 1; ; n++ {
		opCtx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		result, err = op(opCtx)
		cancel()

		if err == nil || !r.transient(err) {
			return result, err
		}
		if n == 2 || ctx.Err() != nil || !again(err) {
			break
		}
		slog.Warn("store operation failed, retrying", "op", name, "error", err)
	}

	var zero T
	return zero, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
}

func (r *Retrying) Create(ctx context.Context, in model.ItemInput, userID, userName string) (*model.Item, error) {
	return retryWrite(ctx, r, "create", func(ctx context.Context) (*model.Item, error) {
		return r.next.Create(ctx, in, userID, userName)
	})
}

func (r *Retrying) GetByID(ctx context.Context, id string) (*model.Item, error) {
	return retry(ctx, r, "get", func(ctx context.Context) (*model.Item, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *Retrying) ListByType(ctx context.Context, t model.Type) ([]model.Item, error) {
	return retry(ctx, r, "list by type", func(ctx context.Context) ([]model.Item, error) {
		return r.next.ListByType(ctx, t)
	})
}

func (r *Retrying) ListByUser(ctx context.Context, userID string) ([]model.Item, error) {
	return retry(ctx, r, "list by user", func(ctx context.Context) ([]model.Item, error) {
		return r.next.ListByUser(ctx, userID)
	})
}

func (r *Retrying) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Item, error) {
	return retry(ctx, r, "update status", func(ctx context.Context) (*model.Item, error) {
		return r.next.UpdateStatus(ctx, id, status)
	})
}

func (r *Retrying) UpdateOwnStatus(ctx context.Context, id, userID string, status model.Status) (*model.Item, error) {
	return retry(ctx, r, "update own status", func(ctx context.Context) (*model.Item, error) {
		return r.next.UpdateOwnStatus(ctx, id, userID, status)
	})
}

func (r *Retrying) Claim(ctx context.Context, id, claimantID string) (*model.Item, error) {
	return retryWrite(ctx, r, "claim", func(ctx context.Context) (*model.Item, error) {
		return r.next.Claim(ctx, id, claimantID)
	})
}

func (r *Retrying) Delete(ctx context.Context, id, userID string) (bool, error) {
	return retryWrite(ctx, r, "delete", func(ctx context.Context) (bool, error) {
		return r.next.Delete(ctx, id, userID)
	})
}

func (r *Retrying) Ping(ctx context.Context) error {
	_, err := retry(ctx, r, "ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.next.Ping(ctx)
	})
	return err
}
