// internal/domain/models/semester.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Semester is an academic term owned by one user. Courses hang off a
// semester via Course.SemesterID; deleting a semester must first delete
// its courses (the store does not cascade).
type Semester struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"-"`
	Name   string             `bson:"nombreSemestre" json:"nombreSemestre"`
}
