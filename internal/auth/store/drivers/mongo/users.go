package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// userDoc is the stored document. Field names mirror the camelCase users
// collection layout; ids are ULID strings and hashes are argon2id.
type userDoc struct {
	ID                    string     `bson:"_id"`
	Username              string     `bson:"username"`
	Email                 string     `bson:"email"`
	FullName              string     `bson:"fullName"`
	PasswordHash          string     `bson:"password"`
	Avatar                string     `bson:"avatar"`
	CoverImage            string     `bson:"coverImage"`
	RefreshToken          string     `bson:"refreshToken,omitempty"`
	RefreshTokenExpiresAt *time.Time `bson:"refreshTokenExpiresAt,omitempty"`
	CreatedAt             time.Time  `bson:"createdAt"`
	UpdatedAt             time.Time  `bson:"updatedAt"`
}

func (d userDoc) toDomain() domain.User {
	var exp *time.Time
	if d.RefreshTokenExpiresAt != nil {
		t := d.RefreshTokenExpiresAt.UTC()
		exp = &t
	}
	return domain.User{
		ID:                    d.ID,
		Username:              d.Username,
		Email:                 d.Email,
		FullName:              d.FullName,
		PasswordHash:          d.PasswordHash,
		Avatar:                d.Avatar,
		CoverImage:            d.CoverImage,
		RefreshToken:          d.RefreshToken,
		RefreshTokenExpiresAt: exp,
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
}

type usersRepo struct {
	coll *mongo.Collection
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return doc.toDomain(), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *usersRepo) FindUserByUsernameOrEmail(
	ctx context.Context,
	username, email string,
) (domain.User, error) {
	or := bson.A{}
	if username != "" {
		or = append(or, bson.D{{Key: "username", Value: username}})
	}
	if email != "" {
		or = append(or, bson.D{{Key: "email", Value: email}})
	}
	if len(or) == 0 {
		return domain.User{}, store.ErrNotFound
	}

	return r.findOne(ctx, bson.D{{Key: "$or", Value: or}})
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	_, err := r.coll.InsertOne(ctx, userDoc{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		FullName:              u.FullName,
		PasswordHash:          u.PasswordHash,
		Avatar:                u.Avatar,
		CoverImage:            u.CoverImage,
		RefreshToken:          u.RefreshToken,
		RefreshTokenExpiresAt: u.RefreshTokenExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	})
	return mapDuplicate(err)
}

// slotUpdate builds the partial update for the refresh-token slot; nothing
// else on the document is written.
func slotUpdate(token string, expiresAt *time.Time) bson.D {
	now := time.Now().UTC()
	if token == "" {
		return bson.D{
			{Key: "$unset", Value: bson.D{
				{Key: "refreshToken", Value: ""},
				{Key: "refreshTokenExpiresAt", Value: ""},
			}},
			{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
		}
	}

	set := bson.D{
		{Key: "refreshToken", Value: token},
		{Key: "updatedAt", Value: now},
	}
	if expiresAt != nil {
		set = append(set, bson.E{Key: "refreshTokenExpiresAt", Value: expiresAt.UTC()})
		return bson.D{{Key: "$set", Value: set}}
	}
	return bson.D{
		{Key: "$set", Value: set},
		{Key: "$unset", Value: bson.D{{Key: "refreshTokenExpiresAt", Value: ""}}},
	}
}

func (r *usersRepo) SetRefreshToken(
	ctx context.Context,
	userID, token string,
	expiresAt *time.Time,
) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: userID}}, slotUpdate(token, expiresAt))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SwapRefreshToken(
	ctx context.Context,
	userID, oldToken, newToken string,
	expiresAt time.Time,
) error {
	if oldToken == "" {
		return store.ErrTokenMismatch
	}

	// The filter on the old token makes this a single-document compare-and-swap
	filter := bson.D{
		{Key: "_id", Value: userID},
		{Key: "refreshToken", Value: oldToken},
	}
	res, err := r.coll.UpdateOne(ctx, filter, slotUpdate(newToken, &expiresAt))
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: userID}})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrTokenMismatch
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.D{
		{Key: "refreshToken", Value: bson.D{{Key: "$exists", Value: true}}},
		{Key: "refreshTokenExpiresAt", Value: bson.D{{Key: "$lte", Value: now.UTC()}}},
	}
	res, err := r.coll.UpdateMany(ctx, filter, slotUpdate("", nil))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
