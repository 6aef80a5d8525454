// Package validation checks operator-supplied identifiers and credentials.
// Every rejection wraps ErrInvalidInput.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	k8svalidation "k8s.io/apimachinery/pkg/util/validation"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	maxReplicaCeiling = 1000
	minUsernameLen    = 3
	maxUsernameLen    = 50
	minPasswordLen    = 8
	maxPasswordLen    = 128
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}

// SanitizeString trims surrounding whitespace and drops control characters
// other than newline and tab.
func SanitizeString(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
}

// ValidateNamespace checks a Kubernetes namespace name.
func ValidateNamespace(name string) error {
	return dnsName("namespace", name, k8svalidation.IsDNS1123Label)
}

// ValidateDeploymentName checks a Kubernetes deployment name.
func ValidateDeploymentName(name string) error {
	return dnsName("deployment", name, k8svalidation.IsDNS1123Subdomain)
}

func dnsName(kind, name string, check func(string) []string) error {
	if problems := check(name); len(problems) > 0 {
		return invalid("%s %q: %s", kind, name, strings.Join(problems, "; "))
	}
	return nil
}

func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(SanitizeString(username))
	switch {
	case n == 0:
		return invalid("username cannot be empty")
	case n < minUsernameLen:
		return invalid("username must be at least %d characters", minUsernameLen)
	case n > maxUsernameLen:
		return invalid("username must not exceed %d characters", maxUsernameLen)
	}
	return nil
}

var passwordClasses = []struct {
	name string
	in   func(rune) bool
}{
	{"an uppercase letter", unicode.IsUpper},
	{"a lowercase letter", unicode.IsLower},
	{"a number", unicode.IsDigit},
	{"a special character", func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) }},
}

// ValidatePassword requires 8 to 128 characters drawn from upper, lower,
// digit and symbol classes.
func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n < minPasswordLen {
		return invalid("password must be at least %d characters", minPasswordLen)
	} else if n > maxPasswordLen {
		return invalid("password must not exceed %d characters", maxPasswordLen)
	}

	for _, class := range passwordClasses {
		if !strings.ContainsFunc(password, class.in) {
			return invalid("password must contain at least %s", class.name)
		}
	}
	return nil
}

// ValidateReplicaBounds checks a min/max replica pair.
func ValidateReplicaBounds(min, max int) error {
	switch {
	case min < 0:
		return invalid("minimum replicas %d is negative", min)
	case max < min:
		return invalid("maximum replicas %d is below minimum %d", max, min)
	case max > maxReplicaCeiling:
		return invalid("maximum replicas %d exceeds %d", max, maxReplicaCeiling)
	}
	return nil
}
