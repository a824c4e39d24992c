package validation

import "walletledger/internal/models"

const (
	MaxAmountScale       = models.AmountScale
	MaxDescriptionLength = models.MaxDescriptionLength
	MaxUserIDLength      = 64
)
