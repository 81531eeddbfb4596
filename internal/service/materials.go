package service

import (
	"context"
	"strings"
	"time"

	"eduvault/internal/domain"
	"eduvault/internal/store"
)

// Visibility values a material may carry
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// MaterialInput is a request to record an uploaded material
type MaterialInput struct {
	Title        string
	Description  *string
	Visibility   string
	FileURL      string
	ThumbnailURL *string
}

// MaterialService lists and records the signed-in user's materials
type MaterialService struct {
	store store.MaterialStore
	now   func() time.Time
}

// NewMaterialService creates a MaterialService
func NewMaterialService(st store.MaterialStore) *MaterialService {
	return &MaterialService{store: st, now: time.Now}
}

// OwnerKey is the address materials are filed under: the wallet address when the user has one,
// otherwise the identity id.
func OwnerKey(user *domain.User) string {
	if user.WalletAddress != nil && *user.WalletAddress != "" {
		return *user.WalletAddress
	}
	return user.ID
}

// List returns the user's materials newest first
func (s *MaterialService) List(ctx context.Context, user *domain.User, page store.Page) ([]domain.Material, int64, error) {
	items, total, err := s.store.ListMaterials(ctx, OwnerKey(user), page)
	if err != nil {
		return nil, 0, &domain.UpstreamError{Op: "list materials", Err: err}
	}
	return items, total, nil
}

// Create records a material for the user
func (s *MaterialService) Create(ctx context.Context, user *domain.User, in MaterialInput) (*domain.Material, error) {
	title := strings.TrimSpace(in.Title)
	fileURL := strings.TrimSpace(in.FileURL)
	if title == "" || fileURL == "" {
		return nil, domain.NewValidationError("Title and fileUrl are required")
	}
	visibility := strings.ToLower(strings.TrimSpace(in.Visibility))
	switch visibility {
	case "":
		visibility = VisibilityPublic
	case VisibilityPublic, VisibilityPrivate:
	default:
		return nil, domain.NewValidationError("Visibility must be public or private")
	}
	m := &domain.Material{
		UserAddress:  OwnerKey(user),
		Title:        title,
		Description:  nilIfBlank(in.Description),
		Visibility:   visibility,
		FileURL:      fileURL,
		ThumbnailURL: nilIfBlank(in.ThumbnailURL),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertMaterial(ctx, m); err != nil {
		return nil, &domain.UpstreamError{Op: "insert material", Err: err}
	}
	return m, nil
}
