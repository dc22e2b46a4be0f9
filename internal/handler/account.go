package handler

import (
	"net/http"
	"strconv"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler exposes the account lifecycle. The active account id is
// client state; switch only validates ownership and echoes the account.
type AccountHandler struct {
	Accounts *service.Accounts
}

func NewAccountHandler(accounts *service.Accounts) *AccountHandler {
	return &AccountHandler{Accounts: accounts}
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accounts, err := h.Accounts.List(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"accounts": accounts})
}

type createAccountReq struct {
	Name           string          `json:"name" binding:"required,max=64"`
	Type           string          `json:"type" binding:"required"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	acc, err := h.Accounts.Create(user.ID, req.Name, req.Type, req.InitialBalance)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

type renameAccountReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

func (h *AccountHandler) Rename(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req renameAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	acc, err := h.Accounts.Rename(user.ID, uint(id), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	// the caller states which account it currently has active so the
	// guard can reject deleting it
	activeID, err := strconv.Atoi(c.Query("active_account_id"))
	if err != nil || activeID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "active_account_id is required")
		return
	}

	if err := h.Accounts.Delete(user.ID, uint(id), uint(activeID)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}

type switchAccountReq struct {
	AccountID uint `json:"account_id" binding:"required"`
}

func (h *AccountHandler) Switch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req switchAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	acc, err := h.Accounts.SwitchActive(user.ID, req.AccountID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": acc})
}
