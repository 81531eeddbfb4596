package store

import (
	"context" // Request-scoped queries
	"errors"  // Error matching
	"regexp"  // Escaping addresses for case-insensitive matching
	"time"    // Document timestamps

	"eduvault/internal/domain" // Importing domain models

	"go.mongodb.org/mongo-driver/v2/bson"          // BSON documents and filters
	"go.mongodb.org/mongo-driver/v2/mongo"         // MongoDB driver
	"go.mongodb.org/mongo-driver/v2/mongo/options" // Query and index options
)

const (
	usersCollection     = "users"
	materialsCollection = "materials"
)

// userDoc is the users collection document. walletAddressLower is omitted when unset so the
// partial unique index only covers documents that carry it.
type userDoc struct {
	ID                 bson.ObjectID `bson:"_id,omitempty"`
	FullName           string        `bson:"fullName"`
	Email              string        `bson:"email"`
	WalletAddress      *string       `bson:"walletAddress"`
	WalletAddressLower *string       `bson:"walletAddressLower,omitempty"`
	Institution        *string       `bson:"institution"`
	Country            *string       `bson:"country"`
	Bio                *string       `bson:"bio"`
	CreatedAt          time.Time     `bson:"createdAt"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:                 d.ID.Hex(),
		FullName:           d.FullName,
		Email:              d.Email,
		WalletAddress:      d.WalletAddress,
		WalletAddressLower: d.WalletAddressLower,
		Institution:        d.Institution,
		Country:            d.Country,
		Bio:                d.Bio,
		CreatedAt:          d.CreatedAt,
	}
}

type materialDoc struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	UserAddress  string        `bson:"userAddress"`
	Title        string        `bson:"title"`
	Description  *string       `bson:"description"`
	Visibility   string        `bson:"visibility"`
	FileURL      string        `bson:"fileUrl"`
	ThumbnailURL *string       `bson:"thumbnailUrl"`
	CreatedAt    time.Time     `bson:"createdAt"`
}

// MongoStore persists identities and materials in MongoDB collections
type MongoStore struct {
	client    *mongo.Client
	users     *mongo.Collection
	materials *mongo.Collection
}

// NewMongoStore binds the store to a database on a connected client
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:    client,
		users:     db.Collection(usersCollection),
		materials: db.Collection(materialsCollection),
	}
}

// walletFilter covers the raw address, the normalized copy and legacy documents without one
func walletFilter(wallet string) bson.A {
	lower := domain.NormalizeWallet(wallet)
	return bson.A{
		bson.M{"walletAddress": bson.M{"$in": bson.A{wallet, lower}}},
		bson.M{"walletAddressLower": bson.M{"$in": bson.A{wallet, lower}}},
		bson.M{"walletAddress": bson.M{"$regex": "^" + regexp.QuoteMeta(wallet) + "$", "$options": "i"}},
	}
}

func (s *MongoStore) findOne(ctx context.Context, filter any) (*domain.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) FindByIdentity(ctx context.Context, email, wallet string) (*domain.User, error) {
	if wallet == "" {
		return s.findOne(ctx, bson.M{"email": email})
	}
	or := append(bson.A{bson.M{"email": email}}, walletFilter(wallet)...)
	return s.findOne(ctx, bson.M{"$or": or})
}

func (s *MongoStore) FindByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"$or": walletFilter(wallet)})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := bson.ObjectIDFromHex(id) // Ids are ObjectID hex strings
	if err != nil {
		return nil, ErrNotFound // Not an id this store could have issued
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) InsertUser(ctx context.Context, u *domain.User) error {
	doc := userDoc{
		FullName:           u.FullName,
		Email:              u.Email,
		WalletAddress:      u.WalletAddress,
		WalletAddressLower: u.WalletAddressLower,
		Institution:        u.Institution,
		Country:            u.Country,
		Bio:                u.Bio,
		CreatedAt:          u.CreatedAt,
	}
	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		return insertError(err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

func (s *MongoStore) ListMaterials(ctx context.Context, owner string, page Page) ([]domain.Material, int64, error) {
	page = page.clamped()
	filter := bson.M{"userAddress": owner}
	total, err := s.materials.CountDocuments(ctx, filter) // Total for the owner
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}). // Newest first
		SetSkip(int64(page.Offset))
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit))
	}
	cur, err := s.materials.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var docs []materialDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	items := make([]domain.Material, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.Material{
			ID:           d.ID.Hex(),
			UserAddress:  d.UserAddress,
			Title:        d.Title,
			Description:  d.Description,
			Visibility:   d.Visibility,
			FileURL:      d.FileURL,
			ThumbnailURL: d.ThumbnailURL,
			CreatedAt:    d.CreatedAt,
		})
	}
	return items, total, nil
}

func (s *MongoStore) InsertMaterial(ctx context.Context, m *domain.Material) error {
	res, err := s.materials.InsertOne(ctx, materialDoc{
		UserAddress:  m.UserAddress,
		Title:        m.Title,
		Description:  m.Description,
		Visibility:   m.Visibility,
		FileURL:      m.FileURL,
		ThumbnailURL: m.ThumbnailURL,
		CreatedAt:    m.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

// insertError maps a unique index violation to ErrDuplicate
func insertError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate // uniq_email or uniq_wallet_lower
	}
	return err
}

// userIndexes are the unique indexes that make concurrent duplicate registrations fail on insert
func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys: bson.D{{Key: "walletAddressLower", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_wallet_lower").
				SetPartialFilterExpression(bson.M{"walletAddressLower": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "walletAddress", Value: 1}}}, // Legacy documents without the lower copy
	}
}

// Migrate creates the user and material indexes
func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, userIndexes())
	if err != nil {
		return err
	}
	_, err = s.materials.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userAddress", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
