package cart

import (
	"errors"
	"fmt"
)

type Code int

const (
	CodeInvalidArgument Code = iota
	CodeUnknownProduct
)

// Error message constants for the cart domain.
const (
	ErrMsgInvalidProduct   = "Product is invalid"
	ErrMsgQuantityPositive = "Quantity must be positive"
	ErrMsgQuantityRange    = "Quantity or total is out of range"
	ErrMsgUnknownProduct   = "Product is not in the catalog"
)

func (c Code) String() string {
	switch c {
	case CodeInvalidArgument:
		return "INVALID_ARGUMENT"
	case CodeUnknownProduct:
		return "UNKNOWN_PRODUCT"
	default:
		return "UNKNOWN"
	}
}

// ValidationError rejects a mutation. The cart is left exactly as it was.
type ValidationError struct {
	Code    Code
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

func NewInvalidArgument(message string) *ValidationError {
	return &ValidationError{Code: CodeInvalidArgument, Message: message}
}

func NewUnknownProduct(productID string) *ValidationError {
	return &ValidationError{
		Code:    CodeUnknownProduct,
		Message: ErrMsgUnknownProduct,
		Fields:  map[string]string{"productId": productID},
	}
}

// AsValidation unwraps err into a *ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
