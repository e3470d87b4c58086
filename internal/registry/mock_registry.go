package registry

import (
	"context"
	"sync"

	"nftflow-backend/internal/domain"
)

// MockAssetRegistry is an in-memory registry for development and tests. It
// stands in for the on-chain rights registry the production deployment
// talks to.
type MockAssetRegistry struct {
	mu     sync.RWMutex
	owners map[domain.AssetRef]int32
	users  map[domain.AssetRef]int32
}

func NewMockAssetRegistry() *MockAssetRegistry {
	return &MockAssetRegistry{
		owners: make(map[domain.AssetRef]int32),
		users:  make(map[domain.AssetRef]int32),
	}
}

// SetOwner seeds ownership. Test/dev helper, not part of AssetRegistry.
func (m *MockAssetRegistry) SetOwner(asset domain.AssetRef, userID int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[asset] = userID
}

func (m *MockAssetRegistry) OwnerOf(ctx context.Context, asset domain.AssetRef) (int32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owner, ok := m.owners[asset]
	if !ok {
		return 0, ErrUnknownAsset
	}
	return owner, nil
}

func (m *MockAssetRegistry) GrantUsage(ctx context.Context, asset domain.AssetRef, userID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[asset]; !ok {
		return ErrUnknownAsset
	}
	m.users[asset] = userID
	return nil
}

func (m *MockAssetRegistry) ClearUsage(ctx context.Context, asset domain.AssetRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, asset)
	return nil
}

func (m *MockAssetRegistry) CurrentUser(ctx context.Context, asset domain.AssetRef) (int32, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[asset]
	return user, ok, nil
}

// StaticPriceSource advises a fixed price for every asset. Used when no
// oracle is wired up.
type StaticPriceSource struct {
	PricePerSecond int64
}

func (s *StaticPriceSource) SuggestedPricePerSecond(ctx context.Context, asset domain.AssetRef) (int64, error) {
	return s.PricePerSecond, nil
}
