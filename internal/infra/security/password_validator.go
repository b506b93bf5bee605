package security

import (
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// PasswordValidationError represents a single password policy violation.
type PasswordValidationError struct {
	Code    string
	Message string
}

// Error implements error for PasswordValidationError.
func (e *PasswordValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// PasswordValidator enforces the admin password policy: a minimum length,
// at least one letter and one digit, and a zxcvbn strength floor. The
// username and email feed zxcvbn as user inputs so passwords derived from
// them score low.
type PasswordValidator struct {
	minLength  int
	minScore   int
	userInputs []string
}

// AdminPasswordValidator returns the policy enforced when provisioning admin
// accounts.
func AdminPasswordValidator(userInputs ...string) *PasswordValidator {
	return &PasswordValidator{
		minLength:  10,
		minScore:   3,
		userInputs: userInputs,
	}
}

// Validate returns the first policy violation, or nil when the password
// passes every check.
func (v *PasswordValidator) Validate(password string) error {
	if v == nil {
		return fmt.Errorf("password validator not configured")
	}

	if len([]rune(password)) < v.minLength {
		return &PasswordValidationError{
			Code:    "min_length",
			Message: fmt.Sprintf("password must be at least %d characters long", v.minLength),
		}
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return &PasswordValidationError{
			Code:    "letter",
			Message: "password must include at least one letter",
		}
	}
	if !hasDigit {
		return &PasswordValidationError{
			Code:    "digit",
			Message: "password must include at least one digit",
		}
	}

	score := v.minScore
	if score > 4 {
		score = 4
	}
	if score > 0 {
		result := zxcvbn.PasswordStrength(password, v.userInputs)
		if result.Score < score {
			return &PasswordValidationError{
				Code:    "weak_password",
				Message: "password is too weak; choose a more complex value",
			}
		}
	}

	return nil
}
