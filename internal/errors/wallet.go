package errors

var (
	ErrInvalidAmount = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
	}
	ErrInvalidUserID = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "INVALID_USER_ID",
		Message: "user id cannot be empty",
	}
	ErrSameWallet = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "SAME_WALLET",
		Message: "cannot transfer to the same wallet",
	}
	ErrWalletExists = &DomainError{
		Kind:    KindInvalidArgument,
		Code:    "WALLET_EXISTS",
		Message: "wallet already exists for user",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrInsufficientFunds = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient funds",
	}
	ErrStoreFault = &DomainError{
		Kind:    KindStoreFault,
		Code:    "STORE_FAULT",
		Message: "ledger store failure",
	}
)
