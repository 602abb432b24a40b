package store

import (
	"errors"
	"fmt"

	"promptpilot/internal/models"
)

var (
	// ErrNotFound matches models.ErrNotFound with errors.Is.
	ErrNotFound  = fmt.Errorf("store: %w", models.ErrNotFound)
	ErrDuplicate = errors.New("store: duplicate resource")
)
