// internal/app/store/courses/store.go
package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/recordhub/internal/app/system/normalize"
	"github.com/dalemusser/recordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a course does not exist in the given scope.
var ErrNotFound = errors.New("course not found")

// Store manages courses. Every operation is scoped by owning user and
// semester so a course can never leak across accounts.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// Create inserts a course with all score periods initialized to zero.
func (s *Store) Create(ctx context.Context, userID, semesterID primitive.ObjectID, name string, credits int, instructor string) (models.Course, error) {
	course := models.Course{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		SemesterID: semesterID,
		Name:       normalize.Name(name),
		Credits:    credits,
		Instructor: normalize.Name(instructor),
	}
	if _, err := s.c.InsertOne(ctx, course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// ListBySemester returns the semester's courses ordered by name.
func (s *Store) ListBySemester(ctx context.Context, userID, semesterID primitive.ObjectID) ([]models.Course, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"user_id": userID, "semester_id": semesterID},
		options.Find().SetSort(bson.D{{Key: "nombreMateria", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Course
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one course in the given scope. Returns ErrNotFound when
// absent or outside the scope.
func (s *Store) Get(ctx context.Context, userID, semesterID, courseID primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	err := s.c.FindOne(ctx, bson.M{
		"_id":         courseID,
		"user_id":     userID,
		"semester_id": semesterID,
	}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// UpdateFields applies a partial $set to one course. Returns ErrNotFound
// when the course does not exist in the scope.
func (s *Store) UpdateFields(ctx context.Context, userID, semesterID, courseID primitive.ObjectID, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	res, err := s.c.UpdateOne(ctx, bson.M{
		"_id":         courseID,
		"user_id":     userID,
		"semester_id": semesterID,
	}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetScore writes one score period (1-based). The caller has already
// validated the period and value ranges.
func (s *Store) SetScore(ctx context.Context, userID, semesterID, courseID primitive.ObjectID, period int, value float64) error {
	return s.UpdateFields(ctx, userID, semesterID, courseID,
		bson.M{fmt.Sprintf("nota%d", period): value})
}

// Delete removes one course. Deleting an absent course is not an error.
func (s *Store) Delete(ctx context.Context, userID, semesterID, courseID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{
		"_id":         courseID,
		"user_id":     userID,
		"semester_id": semesterID,
	})
	return err
}

// DeleteBatch removes up to limit courses from the semester and reports
// how many went. Semester deletion loops on this until it returns zero,
// keeping any single round trip bounded.
func (s *Store) DeleteBatch(ctx context.Context, userID, semesterID primitive.ObjectID, limit int) (int64, error) {
	filter := bson.M{"user_id": userID, "semester_id": semesterID}

	cur, err := s.c.Find(ctx, filter,
		options.Find().SetLimit(int64(limit)).SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return 0, err
	}

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
