// internal/app/store/semesters/store.go
package semesters

import (
	"context"
	"errors"

	"github.com/dalemusser/recordhub/internal/app/system/normalize"
	"github.com/dalemusser/recordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a semester does not exist for the scoping user.
var ErrNotFound = errors.New("semester not found")

// Store manages a user's semesters. Every operation is scoped by the
// owning user id; a semester is never visible across users.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("semesters")}
}

// Create inserts a semester for the user.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, name string) (models.Semester, error) {
	sem := models.Semester{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Name:   normalize.Name(name),
	}
	if _, err := s.c.InsertOne(ctx, sem); err != nil {
		return models.Semester{}, err
	}
	return sem, nil
}

// ListByUser returns the user's semesters ordered by name.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Semester, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "nombreSemestre", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Semester
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one semester, scoped to the user. Returns ErrNotFound when
// absent or owned by someone else.
func (s *Store) Get(ctx context.Context, userID, semesterID primitive.ObjectID) (*models.Semester, error) {
	var sem models.Semester
	err := s.c.FindOne(ctx, bson.M{"_id": semesterID, "user_id": userID}).Decode(&sem)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sem, nil
}

// Rename updates the semester's name. Returns ErrNotFound when the
// semester does not exist for the user.
func (s *Store) Rename(ctx context.Context, userID, semesterID primitive.ObjectID, name string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": semesterID, "user_id": userID},
		bson.M{"$set": bson.M{"nombreSemestre": normalize.Name(name)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the semester document. Deleting an absent semester is
// not an error; the caller has already drained its courses.
func (s *Store) Delete(ctx context.Context, userID, semesterID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": semesterID, "user_id": userID})
	return err
}
