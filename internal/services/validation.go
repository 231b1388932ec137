package services

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func isValidURL(value string) bool {
	return validate.Var(value, "required,url") == nil
}

// isValidPhone accepts exactly ten ASCII digits.
func isValidPhone(value string) bool {
	return validate.Var(value, "len=10,number") == nil
}

func isValidEmail(value string) bool {
	return validate.Var(value, "required,email") == nil
}

func parseID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, validationError("Invalid %s", field)
	}
	return id, nil
}

// parseIDs parses a list of ids and drops duplicates, keeping order.
func parseIDs(values []string, field string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(values))
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := parseID(v, field)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
