package handlers

import (
	"errors"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/middleware"
	"walletledger/internal/models"
	"walletledger/internal/services"
	"walletledger/internal/utils/pagination"
	"walletledger/internal/utils/response"
	"walletledger/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService *services.WalletService
}

func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type createWalletRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

type movementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type transferRequest struct {
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func walletView(w *models.Wallet) fiber.Map {
	return fiber.Map{
		"id":         w.ID(),
		"user_id":    w.UserID(),
		"balance":    w.Balance(),
		"created_at": w.CreatedAt(),
		"updated_at": w.UpdatedAt(),
	}
}

func transactionView(t *models.Transaction) interface{} {
	if t == nil {
		return nil
	}
	return t.Snapshot()
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	var input createWalletRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request format")
		}
	}
	if v := validation.ValidateCreateWallet(input.InitialBalance); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	w, err := h.walletService.CreateWallet(c.UserContext(), middleware.UserID(c), input.InitialBalance)
	if err != nil {
		if errors.Is(err, lerrors.ErrWalletExists) {
			return response.DomainError(c, err, fiber.Map{"created": false})
		}
		return response.DomainError(c, err, nil)
	}
	return response.Created(c, "Wallet created", walletView(w))
}

func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	balance, err := h.walletService.GetBalance(c.UserContext(), userID)
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Balance retrieved", fiber.Map{
		"user_id": userID,
		"balance": balance,
	})
}

func (h *WalletHandler) Exists(c *fiber.Ctx) error {
	exists, err := h.walletService.Exists(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Wallet lookup", fiber.Map{"exists": exists})
}

func (h *WalletHandler) Credit(c *fiber.Ctx) error {
	var input movementRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.ValidateMovement(input.Amount, input.Description); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	res, err := h.walletService.Credit(c.UserContext(), middleware.UserID(c), input.Amount, input.Description)
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Credit successful", fiber.Map{
		"balance":     res.Balance,
		"transaction": transactionView(res.Transaction),
	})
}

func (h *WalletHandler) Debit(c *fiber.Ctx) error {
	var input movementRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.ValidateMovement(input.Amount, input.Description); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	res, err := h.walletService.Debit(c.UserContext(), middleware.UserID(c), input.Amount, input.Description)
	if err != nil {
		if errors.Is(err, lerrors.ErrInsufficientFunds) {
			return response.DomainError(c, err, fiber.Map{"balance": res.Balance})
		}
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Debit successful", fiber.Map{
		"balance":     res.Balance,
		"transaction": transactionView(res.Transaction),
	})
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	var input transferRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if v := validation.ValidateTransfer(input.RecipientID, input.Amount, input.Description); !v.Valid() {
		return response.ValidationError(c, v.Errors)
	}

	res, err := h.walletService.Transfer(c.UserContext(), middleware.UserID(c), input.RecipientID, input.Amount, input.Description)
	if err != nil {
		if errors.Is(err, lerrors.ErrInsufficientFunds) {
			return response.DomainError(c, err, fiber.Map{
				"success": false,
				"balance": res.SenderBalance,
			})
		}
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Transfer successful", fiber.Map{
		"success":     res.Success,
		"balance":     res.SenderBalance,
		"transaction": transactionView(res.Transaction),
	})
}

// ListWalletsAbove lists wallets whose balance exceeds ?above=, lowest
// balance first. Admin only.
func (h *WalletHandler) ListWalletsAbove(c *fiber.Ctx) error {
	above := decimal.Zero
	if raw := c.Query("above"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return response.ValidationError(c, map[string]string{"above": "must be a decimal amount"})
		}
		above = parsed
	}
	p := pagination.ParseFromRequest(c)

	wallets, err := h.walletService.ListWalletsWithBalanceAbove(c.UserContext(), above, p.Page, p.Limit)
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	items := make([]fiber.Map, 0, len(wallets))
	for _, w := range wallets {
		items = append(items, walletView(w))
	}
	return response.Success(c, "Wallets retrieved", fiber.Map{
		"above":   above,
		"page":    p.Page,
		"limit":   p.Limit,
		"wallets": items,
	})
}
