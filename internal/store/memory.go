package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"eduvault/internal/domain"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory. Used for local development and tests.
type MemoryStore struct {
	mu        sync.RWMutex      // Guards both slices
	users     []domain.User     // Identity records in insertion order
	materials []domain.Material // Materials in insertion order
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func walletMatches(u *domain.User, wallet string) bool {
	lower := domain.NormalizeWallet(wallet)
	if u.WalletAddressLower != nil && *u.WalletAddressLower == lower {
		return true
	}
	return u.WalletAddress != nil && strings.EqualFold(*u.WalletAddress, wallet)
}

func (s *MemoryStore) find(match func(u *domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if match(&s.users[i]) {
			u := s.users[i] // Copy so callers cannot mutate the store
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) FindByIdentity(_ context.Context, email, wallet string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool {
		return u.Email == email || (wallet != "" && walletMatches(u, wallet))
	})
}

func (s *MemoryStore) FindByWallet(_ context.Context, wallet string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return walletMatches(u, wallet) })
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	return s.find(func(u *domain.User) bool { return u.ID == id })
}

func (s *MemoryStore) InsertUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Same guarantees as the unique indexes on email and walletAddressLower
	for i := range s.users {
		existing := &s.users[i]
		if existing.Email == u.Email {
			return ErrDuplicate
		}
		if u.WalletAddressLower != nil && existing.WalletAddressLower != nil &&
			*existing.WalletAddressLower == *u.WalletAddressLower {
			return ErrDuplicate
		}
	}
	u.ID = uuid.NewString()       // Store-assigned identifier
	s.users = append(s.users, *u) // Persist a copy
	return nil
}

func (s *MemoryStore) ListMaterials(_ context.Context, owner string, page Page) ([]domain.Material, int64, error) {
	page = page.clamped()
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []domain.Material
	for _, m := range s.materials {
		if m.UserAddress == owner {
			owned = append(owned, m)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned)) // Total before paging
	if page.Offset >= len(owned) {
		return []domain.Material{}, total, nil // Past the end
	}
	owned = owned[page.Offset:]
	if page.Limit > 0 && len(owned) > page.Limit {
		owned = owned[:page.Limit]
	}
	return owned, total, nil
}

func (s *MemoryStore) InsertMaterial(_ context.Context, m *domain.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = uuid.NewString()
	s.materials = append(s.materials, *m)
	return nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }
