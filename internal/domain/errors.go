package domain

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUserInactive          = errors.New("user is inactive")
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrUnknownFirm           = errors.New("unknown firm")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrDuplicateProduct      = errors.New("product with this name already exists")
	ErrDuplicatePurchaseBill = errors.New("purchase invoice already recorded for this supplier")
	ErrInvalidGSTIN          = errors.New("invalid GSTIN format")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrInvalidPAN            = errors.New("invalid PAN format")
	ErrInvalidHSN            = errors.New("HSN must be 4 to 8 digits")
	ErrGSTINPANMismatch      = errors.New("GSTIN does not embed the given PAN")
	ErrProductInUse          = errors.New("product is referenced by invoices")
	ErrStorageUnavailable    = errors.New("object storage is not configured")
	ErrSignupDisabled        = errors.New("self registration is disabled")
	ErrInvalidRole           = errors.New("invalid user role")
	ErrNegativeStock         = errors.New("stock must not be negative")
	ErrNoItems               = errors.New("invoice has no items")
	ErrBalanceChanged        = errors.New("customer balance changed while the invoice was being billed")
)
