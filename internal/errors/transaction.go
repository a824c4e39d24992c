package errors

var (
	ErrDomainValidation = &DomainError{
		Kind:    KindDomainValidation,
		Code:    "DOMAIN_VALIDATION",
		Message: "transaction validation failed",
	}
	ErrInvalidStatusTransition = &DomainError{
		Kind:    KindDomainValidation,
		Code:    "INVALID_STATUS_TRANSITION",
		Message: "invalid transaction status transition",
	}
	ErrInvalidDescription = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_DESCRIPTION",
		Message: "description must not be more than 255 characters long",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
)
