package handler

import (
	"net/http"
	"strconv"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler exposes the read-only aggregation views.
type AnalyticsHandler struct {
	Analytics *service.Analytics
}

func NewAnalyticsHandler(analytics *service.Analytics) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: analytics}
}

// Home returns the home summary for the account the client has active.
func (h *AnalyticsHandler) Home(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	accountID, err := strconv.Atoi(c.Query("account_id"))
	if err != nil || accountID <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "account_id is required")
		return
	}

	summary, err := h.Analytics.HomeSummary(user.ID, uint(accountID))
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"summary": summary})
}

// Report returns the 12-month analytics report. The monthly series is
// sparse: months without activity are omitted.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.Analytics.Report(user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"report": report})
}
