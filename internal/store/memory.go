package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/izgubljeno/internal/model"
)

// Memory is a process-local item store. Each partition is kept in creation
// order and an index maps ids to their partition. A single lock serializes
// every read-modify-write.
type Memory struct {
	mu     sync.RWMutex
	parts  map[model.Type][]*model.Item
	index  map[string]model.Type
	images map[string]memoryImage

	now func() time.Time
}

type memoryImage struct {
	data []byte
	mime string
}

var (
	_ Items  = (*Memory)(nil)
	_ Images = (*Memory)(nil)
)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		parts: map[model.Type][]*model.Item{
			model.TypeLost:  nil,
			model.TypeFound: nil,
		},
		index:  make(map[string]model.Type),
		images: make(map[string]memoryImage),
		now:    time.Now,
	}
}

// Create stores a new item.
func (m *Memory) Create(_ context.Context, in model.ItemInput, userID, userName string) (*model.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	item := &model.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Category:    in.Category,
		Location:    in.Location,
		Date:        in.Date,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		ContactInfo: in.ContactInfo,
		UserID:      userID,
		UserName:    userName,
		Type:        in.Type,
		Status:      model.StatusSearching,
		CreatedAt:   m.now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts[item.Type] = append(m.parts[item.Type], item)
	m.index[item.ID] = item.Type

	out := *item
	return &out, nil
}

// GetByID returns an item by id.
func (m *Memory) GetByID(_ context.Context, id string) (*model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, _ := m.lookup(id)
	if item == nil {
		return nil, ErrNotFound
	}
	out := *item
	return &out, nil
}

// ListByType returns a copy of one partition.
func (m *Memory) ListByType(_ context.Context, t model.Type) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]model.Item, 0, len(m.parts[t]))
	for _, item := range m.parts[t] {
		items = append(items, *item)
	}
	return items, nil
}

// ListByUser returns all items created by userID.
func (m *Memory) ListByUser(_ context.Context, userID string) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var items []model.Item
	for _, t := range []model.Type{model.TypeLost, model.TypeFound} {
		for _, item := range m.parts[t] {
			if item.UserID == userID {
				items = append(items, *item)
			}
		}
	}
	return items, nil
}

// UpdateStatus replaces an item's status.
func (m *Memory) UpdateStatus(_ context.Context, id string, status model.Status) (*model.Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, _ := m.lookup(id)
	if item == nil {
		return nil, ErrNotFound
	}
	item.Status = status
	out := *item
	return &out, nil
}

// UpdateOwnStatus changes the status of an item owned by userID.
func (m *Memory) UpdateOwnStatus(_ context.Context, id, userID string, status model.Status) (*model.Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, _ := m.lookup(id)
	if item == nil || item.UserID != userID {
		return nil, ErrNotFound
	}
	if !item.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, item.Status, status)
	}
	item.Status = status
	out := *item
	return &out, nil
}

// Claim marks a searching item as claimed.
func (m *Memory) Claim(_ context.Context, id, claimantID string) (*model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, _ := m.lookup(id)
	if item == nil {
		return nil, ErrNotFound
	}
	if item.UserID == claimantID || item.Status != model.StatusSearching {
		return nil, ErrNotClaimable
	}
	item.Status = model.StatusClaimed
	out := *item
	return &out, nil
}

// Delete removes an item owned by userID.
func (m *Memory) Delete(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, pos := m.lookup(id)
	if item == nil || item.UserID != userID {
		return false, nil
	}
	m.parts[item.Type] = slices.Delete(m.parts[item.Type], pos, pos+1)
	delete(m.index, id)
	return true, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// PutImage stores an image blob.
func (m *Memory) PutImage(_ context.Context, id string, data []byte, mime string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[id] = memoryImage{data: slices.Clone(data), mime: mime}
	return nil
}

// GetImage returns an image blob.
func (m *Memory) GetImage(_ context.Context, id string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[id]
	if !ok {
		return nil, "", nil
	}
	return slices.Clone(img.data), img.mime, nil
}

// lookup finds an item and its position within its partition.
// The caller must hold m.mu.
func (m *Memory) lookup(id string) (*model.Item, int) {
	t, ok := m.index[id]
	if !ok {
		return nil, -1
	}
	for i, item := range m.parts[t] {
		if item.ID == id {
			return item, i
		}
	}
	return nil, -1
}
