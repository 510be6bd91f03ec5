package project

import "errors"

var (
	// ErrProjectNotFound is returned when a project ID doesn't exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
