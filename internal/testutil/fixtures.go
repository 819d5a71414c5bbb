package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/recordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a test user with the given email and bcrypt hash.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, email, passwordHash string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FirstNames:   "Estudiante",
		LastNames:    "De Prueba",
		NationalID:   "1000000001",
		Email:        email,
		Program:      "Ingeniería de Sistemas",
		PasswordHash: passwordHash,
		Semester:     "1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGoogleUser inserts a federated test user with no local password.
func (f *Fixtures) CreateGoogleUser(ctx context.Context, email, googleID string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FirstNames: "Estudiante",
		LastNames:  "Federado",
		Email:      email,
		GoogleID:   googleID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test google user: %v", err)
	}
	return u
}

// CreateSemester inserts a semester owned by the user.
func (f *Fixtures) CreateSemester(ctx context.Context, userID primitive.ObjectID, name string) models.Semester {
	f.t.Helper()

	sem := models.Semester{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Name:   name,
	}
	if _, err := f.db.Collection("semesters").InsertOne(ctx, sem); err != nil {
		f.t.Fatalf("failed to create test semester: %v", err)
	}
	return sem
}

// CreateCourse inserts a course in the given semester.
func (f *Fixtures) CreateCourse(ctx context.Context, userID, semesterID primitive.ObjectID, name string) models.Course {
	f.t.Helper()

	course := models.Course{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		SemesterID: semesterID,
		Name:       name,
		Credits:    3,
		Instructor: "Profesor De Prueba",
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, course); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return course
}
