package store

import (
	"context"
	"errors"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Store errors. Callers test them with errors.Is.
var (
	// ErrNotFound is returned when no item matches. Ownership-scoped
	// operations also return it when the caller does not own the item,
	// so the two cases cannot be told apart.
	ErrNotFound = errors.New("item not found")

	// ErrUnavailable is returned when the backend stays unreachable after a retry.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidItem is returned by Create for input that fails validation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition is returned when the owner requests a status
	// the item cannot move to from its current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotClaimable is returned when an item is not open for claims or
	// the claimant created it.
	ErrNotClaimable = errors.New("item cannot be claimed")
)

// Items holds lost and found item records. Both partitions share one id space.
type Items interface {
	// Create stores a new item in the partition named by in.Type with status searching.
	Create(ctx context.Context, in model.ItemInput, userID, userName string) (*model.Item, error)

	// GetByID returns the item with the given id from either partition.
	GetByID(ctx context.Context, id string) (*model.Item, error)

	// ListByType returns one partition in creation order.
	ListByType(ctx context.Context, t model.Type) ([]model.Item, error)

	// ListByUser returns the user's lost items followed by their found items.
	ListByUser(ctx context.Context, userID string) ([]model.Item, error)

	// UpdateStatus replaces an item's status without checking the transition.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Item, error)

	// UpdateOwnStatus changes the status of an item owned by userID,
	// enforcing the status transition table.
	UpdateOwnStatus(ctx context.Context, id, userID string, status model.Status) (*model.Item, error)

	// Claim marks a searching item as claimed on behalf of someone other than its creator.
	Claim(ctx context.Context, id, claimantID string) (*model.Item, error)

	// Delete removes the item if it exists and belongs to userID.
	// It reports false both for missing items and for items owned by someone else.
	Delete(ctx context.Context, id, userID string) (bool, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// Images holds uploaded image blobs keyed by opaque ids.
type Images interface {
	PutImage(ctx context.Context, id string, data []byte, mime string) error
	// GetImage returns nil data when no image has the id.
	GetImage(ctx context.Context, id string) ([]byte, string, error)
}
