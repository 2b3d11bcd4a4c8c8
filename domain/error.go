// Package domain defines error types for the catalog.
package domain

import (
	"errors"
	"fmt"
)

// ItemNotFoundError is returned when an item with the given ID is not found
type ItemNotFoundError struct {
	ItemID string
}

// Error implements the error interface for ItemNotFoundError
func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item not found: id=%s", e.ItemID)
}

// Is allows proper error type checking with errors.Is()
func (e *ItemNotFoundError) Is(target error) bool {
	_, ok := target.(*ItemNotFoundError)
	return ok
}

// InvalidItemError is returned when item validation fails
type InvalidItemError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidItemError
func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("invalid item: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidItemError) Is(target error) bool {
	_, ok := target.(*InvalidItemError)
	return ok
}

// DuplicateItemError is returned when attempting to create an item with an existing ID
type DuplicateItemError struct {
	ItemID string
}

// Error implements the error interface for DuplicateItemError
func (e *DuplicateItemError) Error() string {
	return fmt.Sprintf("duplicate item: id=%s already exists", e.ItemID)
}

// Is allows proper error type checking with errors.Is()
func (e *DuplicateItemError) Is(target error) bool {
	_, ok := target.(*DuplicateItemError)
	return ok
}

// InvalidQueryError is returned when user input cannot be turned into a Query.
// The engine never returns it; it only guards parsing at the edges.
type InvalidQueryError struct {
	Param  string
	Reason string
}

// Error implements the error interface for InvalidQueryError
func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query: param=%s, reason=%s", e.Param, e.Reason)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidQueryError) Is(target error) bool {
	_, ok := target.(*InvalidQueryError)
	return ok
}

// NewItemNotFoundError creates a new ItemNotFoundError
func NewItemNotFoundError(itemID string) error {
	return &ItemNotFoundError{ItemID: itemID}
}

// NewInvalidItemError creates a new InvalidItemError
func NewInvalidItemError(field, reason string, value interface{}) error {
	return &InvalidItemError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewDuplicateItemError creates a new DuplicateItemError
func NewDuplicateItemError(itemID string) error {
	return &DuplicateItemError{ItemID: itemID}
}

// NewInvalidQueryError creates a new InvalidQueryError
func NewInvalidQueryError(param, reason string) error {
	return &InvalidQueryError{Param: param, Reason: reason}
}

// IsItemNotFoundError checks if an error is an ItemNotFoundError
func IsItemNotFoundError(err error) bool {
	var nf *ItemNotFoundError
	return errors.As(err, &nf)
}

// IsInvalidItemError checks if an error is an InvalidItemError
func IsInvalidItemError(err error) bool {
	var iie *InvalidItemError
	return errors.As(err, &iie)
}

// IsDuplicateItemError checks if an error is a DuplicateItemError
func IsDuplicateItemError(err error) bool {
	var die *DuplicateItemError
	return errors.As(err, &die)
}

// IsInvalidQueryError checks if an error is an InvalidQueryError
func IsInvalidQueryError(err error) bool {
	var iqe *InvalidQueryError
	return errors.As(err, &iqe)
}
