// Package inputval validates the user-supplied fields of the record
// hierarchy. Each validator returns a *faults.Fault with the exact
// user-visible message, or nil when the value is acceptable.
package inputval

import (
	"math"
	"regexp"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
)

// Field limits.
const (
	MaxTermNameLen   = 30
	MaxCourseNameLen = 30
	MaxInstructorLen = 40
	MaxEmailLen      = 40
	MinPasswordLen   = 6
	MinCredits       = 1
	MaxCredits       = 10
)

// termNamePattern accepts letters (including accented vowels and ñ),
// digits, spaces, parentheses, and hyphens.
var termNamePattern = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ0-9\s\-()]+$`)

// personNamePattern accepts letters (including accented vowels and ñ)
// and spaces only.
var personNamePattern = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñ\s]+$`)

// TermName validates a semester display name (trimmed by the caller).
func TermName(name string) error {
	if name == "" {
		return faults.New(faults.InvalidArgument, "El nombre del semestre es obligatorio")
	}
	if len([]rune(name)) > MaxTermNameLen {
		return faults.New(faults.InvalidArgument, "Máximo 30 caracteres")
	}
	if !termNamePattern.MatchString(name) {
		return faults.New(faults.InvalidArgument, "Nombre inválido. Solo letras, números, espacios, (), y guion -")
	}
	return nil
}

// CourseName validates a course display name (trimmed by the caller).
// Course names share the semester charset: letters, digits, spaces,
// parentheses, and hyphens.
func CourseName(name string) error {
	if name == "" {
		return faults.New(faults.InvalidArgument, "El nombre de la materia es obligatorio")
	}
	if len([]rune(name)) > MaxCourseNameLen {
		return faults.New(faults.InvalidArgument, "El nombre debe tener máximo 30 caracteres")
	}
	if !termNamePattern.MatchString(name) {
		return faults.New(faults.InvalidArgument, "Nombre de materia inválido. Solo letras, números, espacios, (), y guion -")
	}
	return nil
}

// Instructor validates an instructor name (trimmed by the caller):
// letters and spaces only, at most 40 characters.
func Instructor(name string) error {
	if name == "" {
		return faults.New(faults.InvalidArgument, "El nombre del profesor es obligatorio")
	}
	if len([]rune(name)) > MaxInstructorLen {
		return faults.New(faults.InvalidArgument, "El nombre del profesor debe tener máximo 40 caracteres")
	}
	if !personNamePattern.MatchString(name) {
		return faults.New(faults.InvalidArgument, "Nombre de profesor inválido: solo letras y espacios")
	}
	return nil
}

// Credits validates a credit count: an integer between 1 and 10
// inclusive. The argument is a float64 because wire arguments arrive as
// JSON numbers; 4.5 is rejected, 4.0 passes as 4.
func Credits(v float64) (int, error) {
	if math.IsNaN(v) || v != math.Trunc(v) || v < MinCredits || v > MaxCredits {
		return 0, faults.New(faults.InvalidArgument, "Los créditos deben estar entre 1 y 10")
	}
	return int(v), nil
}

// ResetEmail validates the email argument of a reset request (already
// normalized by the caller).
func ResetEmail(email string) error {
	if email == "" {
		return faults.New(faults.InvalidArgument, "El correo es obligatorio")
	}
	if len(email) > MaxEmailLen {
		return faults.New(faults.InvalidArgument, "Máximo 40 caracteres")
	}
	return nil
}

// NewPassword enforces the minimum password length.
func NewPassword(password string) error {
	if len(password) < MinPasswordLen {
		return faults.New(faults.WeakPassword, "La contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

// ScorePeriod validates an assessment period selector (1..3).
func ScorePeriod(v float64) (int, error) {
	if v != math.Trunc(v) || v < 1 || v > 3 {
		return 0, faults.New(faults.InvalidArgument, "El corte debe ser 1, 2 o 3")
	}
	return int(v), nil
}
