package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// ListOptions shapes a page of results.
type ListOptions struct {
	Projection bson.D
	Sort       bson.D
	Skip       int64
	Limit      int64
}
