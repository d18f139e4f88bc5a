package domain

import "errors"

// Error kinds shared by every layer. Lower layers wrap them with context;
// compare with errors.Is.
var (
	ErrDuplicateName       = errors.New("a category with that name already exists")
	ErrProtectedCategory   = errors.New("the promotions category cannot be deleted")
	ErrCategoryInUse       = errors.New("category still has products")
	ErrMissingAddress      = errors.New("delivery address is required")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrAIResponseMalformed = errors.New("ai response is not valid json")
	ErrAIEmptyResponse     = errors.New("ai returned no content")
	ErrAITransport         = errors.New("ai request failed")
	ErrAIBusy              = errors.New("an ai request is already in progress")
	ErrStorageRead         = errors.New("storage read failed")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
)
