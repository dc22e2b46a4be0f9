package handler

import (
	"net/http"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler exposes budget upsert and the month status view.
type BudgetHandler struct {
	Budgets *service.Budgets
}

func NewBudgetHandler(budgets *service.Budgets) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets}
}

type upsertBudgetReq struct {
	CategoryID   uint            `json:"category_id" binding:"required"`
	Month        string          `json:"month"` // defaults to the current month
	MonthlyLimit decimal.Decimal `json:"monthly_limit" binding:"required"`
}

func (h *BudgetHandler) Upsert(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req upsertBudgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	month := req.Month
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	if err := h.Budgets.Upsert(user.ID, req.CategoryID, month, req.MonthlyLimit); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "budget saved"})
}

func (h *BudgetHandler) Status(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	month := c.Query("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if err := util.ValidateMonth(month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	statuses, err := h.Budgets.Status(user.ID, month)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{
		"month":   month,
		"budgets": statuses,
	})
}
