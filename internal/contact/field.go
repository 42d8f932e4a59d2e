package contact

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownField is returned by ParseField for names outside the editable set.
	ErrUnknownField = errors.New("unknown contact field")

	// ErrInvalidAge is returned when an age value is not a base-10 integer.
	ErrInvalidAge = errors.New("age must be a whole number")

	// ErrAgeRequired is returned by the creation form when age is left empty.
	ErrAgeRequired = errors.New("age is required")
)

// Field identifies one editable attribute of a Contact.
// The ID is deliberately not a Field: identity never changes.
type Field int

const (
	FieldName Field = iota
	FieldPhone
	FieldAge
	FieldEmail
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldName, FieldPhone, FieldAge, FieldEmail}

// String returns the wire name of the field
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPhone:
		return "phone"
	case FieldAge:
		return "age"
	case FieldEmail:
		return "email"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// Label returns the column header used by the table and the form.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldPhone:
		return "Phone"
	case FieldAge:
		return "Age"
	case FieldEmail:
		return "Email"
	default:
		return f.String()
	}
}

// Numeric reports whether the field only accepts digits.
func (f Field) Numeric() bool {
	return f == FieldAge
}

// Get returns the field's value from c formatted as text.
func (f Field) Get(c Contact) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldPhone:
		return c.Phone
	case FieldAge:
		return strconv.Itoa(c.Age)
	case FieldEmail:
		return c.Email
	default:
		return ""
	}
}

// Set parses raw and stores it into c through the typed setter for f.
// On error c is left unchanged.
func (f Field) Set(c *Contact, raw string) error {
	switch f {
	case FieldName:
		c.SetName(raw)
	case FieldPhone:
		c.SetPhone(raw)
	case FieldAge:
		age, err := ParseAge(raw)
		if err != nil {
			return err
		}
		c.SetAge(age)
	case FieldEmail:
		c.SetEmail(raw)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return nil
}

// ParseField maps a wire name (case-insensitive) to a Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, nil
	case "phone":
		return FieldPhone, nil
	case "age":
		return FieldAge, nil
	case "email":
		return FieldEmail, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// ParseAge converts number-input text into an age. Empty input is 0.
func ParseAge(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAge, raw)
	}
	return age, nil
}
