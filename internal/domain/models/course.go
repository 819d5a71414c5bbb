// internal/domain/models/course.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ScorePeriods is the number of assessment periods per course. Score
// fields are nota1..nota3 and default to 0.
const ScorePeriods = 3

// Course belongs to exactly one semester of one user. Both owner ids are
// stored on the document so every query can be scoped without joins.
type Course struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"-"`
	SemesterID primitive.ObjectID `bson:"semester_id" json:"-"`
	Name       string             `bson:"nombreMateria" json:"nombreMateria"`
	Credits    int                `bson:"creditos" json:"creditos"` // 1..10
	Instructor string             `bson:"nombreProfesor" json:"nombreProfesor"`
	Score1     float64            `bson:"nota1" json:"nota1"`
	Score2     float64            `bson:"nota2" json:"nota2"`
	Score3     float64            `bson:"nota3" json:"nota3"`
}
