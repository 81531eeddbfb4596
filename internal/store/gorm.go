package store

import (
	"context" // Request-scoped queries
	"errors"  // Error matching
	"strings" // Error message inspection

	"eduvault/internal/domain" // Importing domain models

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"github.com/google/uuid"         // Identifier generation
	"gorm.io/gorm"                   // GORM ORM library
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// walletClause matches the raw address, the normalized copy, and legacy rows without a normalized copy
const walletClause = "wallet_address = ? OR wallet_address_lower = ? OR LOWER(wallet_address) = ?"

// GormStore persists identities and materials through GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// firstUser runs the query and maps "no rows" to ErrNotFound
func firstUser(q *gorm.DB) (*domain.User, error) {
	var user domain.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound // No match
		}
		return nil, err // Any other DB error
	}
	return &user, nil
}

func (s *GormStore) FindByIdentity(ctx context.Context, email, wallet string) (*domain.User, error) {
	q := s.db.WithContext(ctx).Where("email = ?", email)
	if wallet != "" {
		lower := domain.NormalizeWallet(wallet)
		q = q.Or(walletClause, wallet, lower, lower) // Either identity counts as a duplicate
	}
	return firstUser(q)
}

func (s *GormStore) FindByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	lower := domain.NormalizeWallet(wallet)
	return firstUser(s.db.WithContext(ctx).Where(walletClause, wallet, lower, lower))
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return firstUser(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *GormStore) InsertUser(ctx context.Context, u *domain.User) error {
	u.ID = uuid.NewString() // Store-assigned identifier
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		u.ID = ""
		if isDuplicateKey(err) {
			return ErrDuplicate // Unique index on email or wallet_address_lower
		}
		return err
	}
	return nil
}

func (s *GormStore) ListMaterials(ctx context.Context, owner string, page Page) ([]domain.Material, int64, error) {
	page = page.clamped() // Never hand the driver a negative window
	// Session makes the filtered query safe to reuse for both count and page
	query := s.db.WithContext(ctx).Model(&domain.Material{}).Where("user_address = ?", owner).Session(&gorm.Session{})
	var total int64 // Total materials for the owner
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []domain.Material{} // Never nil so it encodes as []
	q := query.Order("created_at desc").Offset(page.Offset)
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *GormStore) InsertMaterial(ctx context.Context, m *domain.Material) error {
	m.ID = uuid.NewString()
	return s.db.WithContext(ctx).Create(m).Error
}

// Migrate creates tables, columns and the unique indexes declared on the models
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Material{})
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isDuplicateKey recognizes unique violations whether or not GORM translated them
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite
}
