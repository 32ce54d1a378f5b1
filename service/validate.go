package service

import (
	"strings"
	"unicode/utf8"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

const (
	MinProblemTypeLen = 1
	MaxProblemTypeLen = 100

	MinDescriptionLen = 10
	MaxDescriptionLen = 1000

	MinLocationLen = 5
	MaxLocationLen = 255

	MinNameLen = 1
	MaxNameLen = 100

	MinEmailLen = 5
	MaxEmailLen = 100

	// bcrypt ignores everything after 72 bytes.
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return apperr.Validation(field, "is required")
	}
	if n < min || n > max {
		return apperr.Validation(field, "must be in range [%d, %d] characters", min, max)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateNewRequest(in models.NewAssistanceRequest) (models.NewAssistanceRequest, error) {
	in.ProblemType = strings.TrimSpace(in.ProblemType)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)

	if err := validateLength("problemType", in.ProblemType, MinProblemTypeLen, MaxProblemTypeLen); err != nil {
		return in, err
	}
	if err := validateLength("description", in.Description, MinDescriptionLen, MaxDescriptionLen); err != nil {
		return in, err
	}
	if err := validateLength("location", in.Location, MinLocationLen, MaxLocationLen); err != nil {
		return in, err
	}
	return in, nil
}

func validateEmail(email string) error {
	if err := validateLength("email", email, MinEmailLen, MaxEmailLen); err != nil {
		return err
	}
	if strings.Count(email, "@") != 1 {
		return apperr.Validation("email", "must contain exactly one @")
	}
	return nil
}

func validateNewUser(in models.NewUser) (models.NewUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if err := validateLength("name", in.Name, MinNameLen, MaxNameLen); err != nil {
		return in, err
	}
	if err := validateEmail(in.Email); err != nil {
		return in, err
	}
	if len(in.Password) == 0 {
		return in, apperr.Validation("password", "is required")
	}
	if len(in.Password) < MinPasswordLen || len(in.Password) > MaxPasswordLen {
		return in, apperr.Validation("password", "must be in range [%d, %d] characters", MinPasswordLen, MaxPasswordLen)
	}
	if !in.Role.Valid() {
		return in, apperr.Validation("role", "%q is not a role", in.Role)
	}
	return in, nil
}
