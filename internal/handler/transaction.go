package handler

import (
	"net/http"
	"strconv"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler exposes the ledger operations. The "transfer" type is
// handled here by dispatching to the transfer protocol; it is never stored
// as a transaction type.
type TransactionHandler struct {
	Ledger    *service.Ledger
	Transfers *service.Transfers
}

func NewTransactionHandler(ledger *service.Ledger, transfers *service.Transfers) *TransactionHandler {
	return &TransactionHandler{Ledger: ledger, Transfers: transfers}
}

type createTransactionReq struct {
	Type        string          `json:"type" binding:"required,oneof=income expense personal transfer"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"max=255"`

	// income / expense / personal
	AccountID  uint  `json:"account_id"`
	CategoryID *uint `json:"category_id"`

	// personal
	PersonName string `json:"person_name" binding:"max=64"`
	Direction  string `json:"direction"`

	// transfer
	FromAccountID uint `json:"from_account_id"`
	ToAccountID   uint `json:"to_account_id"`
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	if req.Type == "transfer" {
		transfer, err := h.Transfers.Execute(user.ID, service.TransferInput{
			FromAccountID: req.FromAccountID,
			ToAccountID:   req.ToAccountID,
			Amount:        req.Amount,
			Date:          date,
			Description:   req.Description,
		})
		if err != nil {
			fail(c, err)
			return
		}
		util.Success(c, util.Response{"transfer_id": transfer.ID})
		return
	}

	t, err := h.Ledger.Record(user.ID, service.TransactionInput{
		AccountID:   req.AccountID,
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		PersonName:  req.PersonName,
		Direction:   req.Direction,
	})
	if err != nil {
		fail(c, err)
		return
	}

	util.Success(c, util.Response{"transaction_id": t.ID})
}

func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactions, err := h.Ledger.List(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"transactions": transactions})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Ledger.Delete(user.ID, uint(id)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "deleted"})
}

// ListTransfers returns the transfer audit records.
func (h *TransactionHandler) ListTransfers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transfers, err := h.Transfers.List(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"transfers": transfers})
}
