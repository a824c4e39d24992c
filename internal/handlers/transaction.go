package handlers

import (
	"errors"

	lerrors "walletledger/internal/errors"
	"walletledger/internal/middleware"
	"walletledger/internal/models"
	"walletledger/internal/services"
	"walletledger/internal/services/transaction"
	"walletledger/internal/utils/pagination"
	"walletledger/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	walletService *services.WalletService
}

func NewTransactionHandler(walletService *services.WalletService) *TransactionHandler {
	return &TransactionHandler{walletService: walletService}
}

// GetTransactions lists the caller's transactions, newest first.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	page, err := h.walletService.ListTransactions(c.UserContext(), middleware.UserID(c), p.Page, p.Limit)
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	return c.JSON(transactionPage(p, page))
}

// GetAllTransactions lists every transaction in the ledger. Admin only.
func (h *TransactionHandler) GetAllTransactions(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	page, err := h.walletService.ListAllTransactions(c.UserContext(), p.Page, p.Limit)
	if err != nil {
		return response.DomainError(c, err, nil)
	}
	return c.JSON(transactionPage(p, page))
}

func transactionPage(p pagination.Pagination, page *transaction.Page) fiber.Map {
	items := make([]models.TransactionSnapshot, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, t.Snapshot())
	}
	p.Total = page.Total
	return pagination.Response(p, items)
}

// GetTransaction returns one record. Records the caller took no part in are
// reported as not found.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	txn, err := h.walletService.GetTransaction(c.UserContext(), c.Params("id"))
	if err == nil && !txn.Involves(middleware.UserID(c)) {
		err = lerrors.ErrTransactionNotFound
	}
	if err != nil {
		if errors.Is(err, lerrors.ErrTransactionNotFound) {
			return response.NotFound(c, "Transaction not found")
		}
		return response.DomainError(c, err, nil)
	}
	return response.Success(c, "Transaction retrieved", txn.Snapshot())
}
