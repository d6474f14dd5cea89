package checkout

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError reports a malformed or incomplete cart.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Reason
}

// NotFoundError names a referenced product that does not exist.
type NotFoundError struct {
	ProductID primitive.ObjectID
	Name      string
}

func (e *NotFoundError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("product %q (%s) not found", e.Name, e.ProductID.Hex())
	}
	return fmt.Sprintf("product %s not found", e.ProductID.Hex())
}

// StorageError wraps an underlying store failure. Mutating operations are not
// retried on it, to avoid duplicate orders.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
