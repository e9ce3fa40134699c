package validators

import (
	"errors"
	"strings"
)

// SplitFullName splits a full name on the first space. Everything after
// it is the last name, which may be empty.
func SplitFullName(name string) (first, last string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", errors.New("name cannot be empty")
	}

	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last), nil
}
