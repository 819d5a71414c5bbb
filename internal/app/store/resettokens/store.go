// internal/app/store/resettokens/store.go
package resettokens

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultExpiry is how long a password-reset token is valid.
const DefaultExpiry = 30 * time.Minute

// ErrNotFound is returned when a token does not exist.
var ErrNotFound = errors.New("reset token not found")

// ResetToken is a single-use password-reset grant. The document _id is
// the opaque token string itself (a UUID), so lookup needs no extra index.
// Consumed tokens are kept with Used/Reason set rather than deleted.
type ResetToken struct {
	Token     string             `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Email     string             `bson:"correo"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
	Used      bool               `bson:"used"`
	Reason    string             `bson:"reason,omitempty"` // "confirmed" or "expired"
}

// Expired reports whether the token's deadline has passed.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Store manages password-reset tokens.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store with the specified expiry duration.
// If expiry is 0 or negative, DefaultExpiry (30 minutes) is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("resettokens"),
		expiry: expiry,
	}
}

// Expiry returns the token lifetime.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// Create mints a fresh token for the user and returns it. Earlier tokens
// for the same user stay valid until they expire or are used.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string) (ResetToken, error) {
	now := time.Now()
	tok := ResetToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, tok); err != nil {
		return ResetToken{}, err
	}
	return tok, nil
}

// Get loads a token by its string. Returns ErrNotFound when absent;
// expiry and reuse checks belong to the caller, which needs to
// distinguish them.
func (s *Store) Get(ctx context.Context, token string) (*ResetToken, error) {
	var tok ResetToken
	if err := s.c.FindOne(ctx, bson.M{"_id": token}).Decode(&tok); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tok, nil
}

// MarkUsed flags a token as consumed with the given reason.
func (s *Store) MarkUsed(ctx context.Context, token, reason string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": token},
		bson.M{"$set": bson.M{"used": true, "reason": reason}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkExpired flags every unused token whose deadline has passed.
// Returns the number of tokens marked.
func (s *Store) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"used": false, "expires_at": bson.M{"$lt": now}},
		bson.M{"$set": bson.M{"used": true, "reason": "expired"}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
