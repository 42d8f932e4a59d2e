package contact

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks the draft the way the creation form's input attributes do:
// name, phone and email are required and email must look like an address.
// Age is already an integer by construction.
func (d Draft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Phone, validation.Required),
		validation.Field(&d.Email, validation.Required, is.EmailFormat),
	)
}
