package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange marks an item whose end date precedes its start date.
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrArchived is returned when mutating an archived item.
	ErrArchived = errors.New("item is archived")
)
