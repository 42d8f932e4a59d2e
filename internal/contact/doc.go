// Package contact defines the Contact entity managed by contactdesk and the
// closed set of fields a user may edit.
//
// Editing goes through Field rather than by attribute name:
//
//	f, err := contact.ParseField("age")
//	if err != nil {
//	    return err
//	}
//	if err := f.Set(&c, "31"); err != nil {
//	    return err // ErrInvalidAge
//	}
//
// New contacts are collected as a Draft and receive an identifier with
// NewID before they are sent to the API.
package contact
