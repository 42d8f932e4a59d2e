package contact

import (
	"fmt"

	"github.com/google/uuid"
)

// Contact is a single entry in the address book.
// ID is opaque and assigned either by the client (on create) or by the API.
type Contact struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Age   int    `json:"age" yaml:"age"`
	Email string `json:"email" yaml:"email"`
}

// Draft holds the fields of a contact that has not been assigned an ID yet.
// It is what the creation form collects.
type Draft struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Age   int    `json:"age" yaml:"age"`
	Email string `json:"email" yaml:"email"`
}

// NewID returns a fresh client-side contact identifier.
func NewID() string {
	return uuid.NewString()
}

// WithID turns the draft into a Contact carrying the given id.
func (d Draft) WithID(id string) Contact {
	return Contact{
		ID:    id,
		Name:  d.Name,
		Phone: d.Phone,
		Age:   d.Age,
		Email: d.Email,
	}
}

// Draft strips the identifier from c.
func (c Contact) Draft() Draft {
	return Draft{
		Name:  c.Name,
		Phone: c.Phone,
		Age:   c.Age,
		Email: c.Email,
	}
}

// SetName sets the contact's name
func (c *Contact) SetName(name string) { c.Name = name }

// SetPhone sets the contact's phone number
func (c *Contact) SetPhone(phone string) { c.Phone = phone }

// SetAge sets the contact's age
func (c *Contact) SetAge(age int) { c.Age = age }

// SetEmail sets the contact's email address
func (c *Contact) SetEmail(email string) { c.Email = email }

// String returns a compact human-readable form used in logs and CLI output.
func (c Contact) String() string {
	return fmt.Sprintf("%s <%s> %s, age %d (id %s)", c.Name, c.Email, c.Phone, c.Age, c.ID)
}
