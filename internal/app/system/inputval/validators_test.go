package inputval

import (
	"testing"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
)

func TestTermName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "2024-1", true},
		{"accents", "Semestre Décimo", true},
		{"enie", "Año Señalado", true},
		{"parens and hyphen", "2024-1 (intensivo)", true},
		{"empty", "", false},
		{"thirty chars", "123456789012345678901234567890", true},
		{"thirty-one chars", "1234567890123456789012345678901", false},
		{"bad char", "2024/1", false},
		{"bad char underscore", "sem_1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TermName(tt.input)
			if tt.ok && err != nil {
				t.Errorf("TermName(%q) = %v, want nil", tt.input, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("TermName(%q) = nil, want error", tt.input)
				}
				if faults.KindOf(err) != faults.InvalidArgument {
					t.Errorf("TermName(%q) kind = %v, want InvalidArgument", tt.input, faults.KindOf(err))
				}
			}
		})
	}
}

func TestInstructor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"plain", "Ada Lovelace", true},
		{"accented", "José Núñez", true},
		{"empty", "", false},
		{"digits rejected", "Profesor 2", false},
		{"hyphen rejected", "Ana-María", false},
		{"forty chars", "Abcdefghij Abcdefghij Abcdefghij Abcdefg", true},
		{"forty-one chars", "Abcdefghij Abcdefghij Abcdefghij Abcdefgh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Instructor(tt.input)
			if tt.ok && err != nil {
				t.Errorf("Instructor(%q) = %v, want nil", tt.input, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("Instructor(%q) = nil, want error", tt.input)
			}
		})
	}
}

func TestCredits(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  int
		ok    bool
	}{
		{"lower boundary", 1, 1, true},
		{"upper boundary", 10, 10, true},
		{"middle", 4, 4, true},
		{"zero", 0, 0, false},
		{"eleven", 11, 0, false},
		{"non-integer", 4.5, 0, false},
		{"negative", -3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Credits(tt.input)
			if tt.ok {
				if err != nil {
					t.Fatalf("Credits(%v) = %v, want nil", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("Credits(%v) = %d, want %d", tt.input, got, tt.want)
				}
				return
			}
			if err == nil {
				t.Errorf("Credits(%v) = nil, want error", tt.input)
			}
		})
	}
}

func TestNewPassword(t *testing.T) {
	if err := NewPassword("12345"); faults.KindOf(err) != faults.WeakPassword {
		t.Errorf("short password kind = %v, want WeakPassword", faults.KindOf(err))
	}
	if err := NewPassword("123456"); err != nil {
		t.Errorf("six-char password rejected: %v", err)
	}
}

func TestResetEmail(t *testing.T) {
	if err := ResetEmail(""); err == nil {
		t.Error("empty email accepted")
	}
	long := "a@" + string(make([]byte, MaxEmailLen)) // > 40 chars total
	if err := ResetEmail(long); err == nil {
		t.Error("overlong email accepted")
	}
	if err := ResetEmail("a@x.com"); err != nil {
		t.Errorf("valid email rejected: %v", err)
	}
}

func TestScorePeriod(t *testing.T) {
	for _, v := range []float64{1, 2, 3} {
		if _, err := ScorePeriod(v); err != nil {
			t.Errorf("ScorePeriod(%v) = %v, want nil", v, err)
		}
	}
	for _, v := range []float64{0, 4, 1.5, -1} {
		if _, err := ScorePeriod(v); err == nil {
			t.Errorf("ScorePeriod(%v) = nil, want error", v)
		}
	}
}
