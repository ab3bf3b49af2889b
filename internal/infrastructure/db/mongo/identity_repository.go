package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

const collectionIdentities = "identities"

type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(collectionIdentities)}
}

// mongoIdentity carries lower-cased copies of username and email so lookups
// and the unique indexes are case-insensitive.
type mongoIdentity struct {
	ID            string    `bson:"_id"`
	Username      string    `bson:"username"`
	UsernameLower string    `bson:"username_lower"`
	Email         string    `bson:"email"`
	EmailLower    string    `bson:"email_lower"`
	FirstName     string    `bson:"first_name"`
	LastName      string    `bson:"last_name"`
	Phone         string    `bson:"phone,omitempty"`
	Role          string    `bson:"role"`
	IsActive      bool      `bson:"is_active"`
	PasswordHash  string    `bson:"password_hash"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func toMongoIdentity(i *domain.Identity) mongoIdentity {
	return mongoIdentity{
		ID:            i.ID,
		Username:      i.Username,
		UsernameLower: strings.ToLower(i.Username),
		Email:         i.Email,
		EmailLower:    domain.NormalizeEmail(i.Email),
		FirstName:     i.FirstName,
		LastName:      i.LastName,
		Phone:         i.Phone,
		Role:          string(i.Role),
		IsActive:      i.IsActive,
		PasswordHash:  i.PasswordHash,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func (m mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoIdentity(identity)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email_lower") {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert identity: %w", mapErr(err))
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"username_lower": strings.ToLower(strings.TrimSpace(username))})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email_lower": domain.NormalizeEmail(email)})
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return doc.toDomain(), nil
}
