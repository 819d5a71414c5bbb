// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a student account.
//
// NOTE:
//   - Field keys mirror the wire contract (correo, nombres, …) so documents
//     written by earlier deployments stay readable.
//   - PasswordHash is empty for accounts created through Google sign-in that
//     never set a password.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstNames   string             `bson:"nombres" json:"nombres"`
	LastNames    string             `bson:"apellidos" json:"apellidos"`
	NationalID   string             `bson:"cedula" json:"cedula"`
	Email        string             `bson:"correo" json:"correo"` // normalized lowercase, unique
	Program      string             `bson:"carrera" json:"carrera"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	GoogleID     string             `bson:"google_id,omitempty" json:"-"`
	Semester     string             `bson:"semestre" json:"semestre"` // enrollment term label

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
