package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edumee-backend/internal/apperror"
	authdomain "edumee-backend/internal/auth/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const usersCollection = "users"

// userDocument is the stored shape of a user in MongoDB.
type userDocument struct {
	ID                   bson.ObjectID       `bson:"_id,omitempty"`
	Email                string              `bson:"email"`
	Password             string              `bson:"password"`
	FirstName            string              `bson:"firstName,omitempty"`
	LastName             string              `bson:"lastName,omitempty"`
	Avatar               string              `bson:"avatar,omitempty"`
	Phone                string              `bson:"phone,omitempty"`
	Role                 authdomain.Role     `bson:"role"`
	IsVerified           bool                `bson:"isVerified"`
	IsActive             bool                `bson:"isActive"`
	VerificationToken    string              `bson:"verificationToken,omitempty"`
	ResetPasswordToken   string              `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time          `bson:"resetPasswordExpires,omitempty"`
	LastLogin            *time.Time          `bson:"lastLogin,omitempty"`
	Profile              *authdomain.Profile `bson:"profile,omitempty"`
	GoogleID             string              `bson:"googleId,omitempty"`
	FacebookID           string              `bson:"facebookId,omitempty"`
	CreatedAt            time.Time           `bson:"createdAt"`
	UpdatedAt            time.Time           `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *authdomain.User {
	u := &authdomain.User{
		ID:                   d.ID.Hex(),
		Email:                d.Email,
		Password:             d.Password,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		Avatar:               d.Avatar,
		Phone:                d.Phone,
		Role:                 d.Role,
		IsVerified:           d.IsVerified,
		IsActive:             d.IsActive,
		VerificationToken:    d.VerificationToken,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		LastLogin:            d.LastLogin,
		Profile:              d.Profile,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.GoogleID != "" {
		id := d.GoogleID
		u.GoogleID = &id
	}
	if d.FacebookID != "" {
		id := d.FacebookID
		u.FacebookID = &id
	}
	return u
}

func newUserDocument(u *authdomain.User) *userDocument {
	d := &userDocument{
		Email:                u.Email,
		Password:             u.Password,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Avatar:               u.Avatar,
		Phone:                u.Phone,
		Role:                 u.Role,
		IsVerified:           u.IsVerified,
		IsActive:             u.IsActive,
		VerificationToken:    u.VerificationToken,
		ResetPasswordToken:   u.ResetPasswordToken,
		ResetPasswordExpires: u.ResetPasswordExpires,
		LastLogin:            u.LastLogin,
		Profile:              u.Profile,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
	if u.GoogleID != nil {
		d.GoogleID = *u.GoogleID
	}
	if u.FacebookID != nil {
		d.FacebookID = *u.FacebookID
	}
	return d
}

// mongoUserRepository implements UserRepository on a MongoDB collection.
type mongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates the users collection indexes and returns a
// MongoDB-backed UserRepository.
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (UserRepository, error) {
	users := db.Collection(usersCollection)

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "googleId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "facebookId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("create user indexes: %w", err)
	}

	return &mongoUserRepository{users: users}, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, newUser *authdomain.NewUser) (*authdomain.User, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	user, err := newUserRecord(newUser, now)
	if err != nil {
		return nil, err
	}

	doc := newUserDocument(user)
	doc.ID = bson.NewObjectID()

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return nil, translateWriteError(err, "insert user", "Email already registered")
	}
	return doc.toDomain(), nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	return r.findOne(ctx, bson.M{"email": authdomain.NormalizeEmail(email)})
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	user, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (r *mongoUserRepository) FindByExternalID(ctx context.Context, provider authdomain.Provider, externalID string) (*authdomain.User, error) {
	field, err := externalIDField(provider)
	if err != nil {
		return nil, err
	}
	if externalID == "" {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{field: externalID})
}

func (r *mongoUserRepository) Update(ctx context.Context, id string, update authdomain.UserUpdate) (*authdomain.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	set := updateFields(update)
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, translateWriteError(err, "update user", "External account already linked to another user")
	}
	return doc.toDomain(), nil
}

func (r *mongoUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("User not found")
	}

	now := time.Now().UTC()
	res, err := r.users.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"lastLogin": now, "updatedAt": now}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("User not found")
	}
	return nil
}

func (r *mongoUserRepository) VerifyPassword(user *authdomain.User, password string) bool {
	return CheckPasswordHash(password, user.Password)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*authdomain.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// translateWriteError turns a unique index violation into Conflict and wraps
// anything else with op.
func translateWriteError(err error, op, conflictMsg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict(conflictMsg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func externalIDField(provider authdomain.Provider) (string, error) {
	switch provider {
	case authdomain.ProviderGoogle:
		return "googleId", nil
	case authdomain.ProviderFacebook:
		return "facebookId", nil
	}
	return "", apperror.BadRequest("Unsupported provider: " + string(provider))
}

// updateFields maps a partial update to a $set document.
func updateFields(update authdomain.UserUpdate) bson.M {
	set := bson.M{}
	if update.FirstName != nil {
		set["firstName"] = strings.TrimSpace(*update.FirstName)
	}
	if update.LastName != nil {
		set["lastName"] = strings.TrimSpace(*update.LastName)
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Profile != nil {
		set["profile"] = update.Profile
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}
	if update.IsVerified != nil {
		set["isVerified"] = *update.IsVerified
	}
	if update.GoogleID != nil {
		set["googleId"] = *update.GoogleID
	}
	if update.FacebookID != nil {
		set["facebookId"] = *update.FacebookID
	}
	return set
}
