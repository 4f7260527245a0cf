// Package validator holds the client-side checks run before a record is sent
// to the API. All checks are advisory; the API remains authoritative.
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/escolar/admin-console/internal/core/domain"
)

const (
	MsgRequired = "Campo requerido"
	MsgNumeric  = "El campo solo acepta números"
	MsgEmail    = "El campo tiene que ser un correo electrónico válido"
)

func MsgMin(n int) string {
	return fmt.Sprintf("El campo debe tener al menos %d caracteres", n)
}

func MsgMax(n int) string {
	return fmt.Sprintf("El campo no puede exceder %d caracteres", n)
}

// A Rule returns an error message, or "" when the value passes.
type Rule func(value string) string

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func Required(v string) string {
	if strings.TrimSpace(v) == "" {
		return MsgRequired
	}
	return ""
}

// Min and Max bound the length in characters, inclusive.
func Min(n int) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(v) < n {
			return MsgMin(n)
		}
		return ""
	}
}

func Max(n int) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(v) > n {
			return MsgMax(n)
		}
		return ""
	}
}

func Numeric(v string) string {
	if !digitsOnly.MatchString(v) {
		return MsgNumeric
	}
	return ""
}

// Email checks the local@domain shape with at least one dot in the domain.
func Email(v string) string {
	if strings.ContainsAny(v, " \t\r\n") || strings.Count(v, "@") != 1 {
		return MsgEmail
	}
	local, host, _ := strings.Cut(v, "@")
	if local == "" || !strings.Contains(host, ".") ||
		strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") ||
		strings.Contains(host, "..") {
		return MsgEmail
	}
	return ""
}

// Digits requires exactly n characters; pair it with Numeric.
func Digits(n int, msg string) Rule {
	return func(v string) string {
		if utf8.RuneCountInString(v) != n {
			return msg
		}
		return ""
	}
}

func Matches(re *regexp.Regexp, msg string) Rule {
	return func(v string) string {
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// AtLeast requires a whole number greater than or equal to n.
func AtLeast(n int, msg string) Rule {
	return func(v string) string {
		i, err := strconv.Atoi(v)
		if err != nil || i < n {
			return msg
		}
		return ""
	}
}

// Check runs the rules in order and records the first failure for the field.
func Check(errs domain.ValidationErrors, f domain.Field, value string, rules ...Rule) {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			errs[f] = msg
			return
		}
	}
}
