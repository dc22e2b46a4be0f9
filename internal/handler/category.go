package handler

import (
	"net/http"
	"strconv"

	"github.com/LakshyaDuck/finance-tracker/internal/service"
	"github.com/LakshyaDuck/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// CategoryHandler exposes the category lifecycle. Presets are read-only.
type CategoryHandler struct {
	Categories *service.Categories
}

func NewCategoryHandler(categories *service.Categories) *CategoryHandler {
	return &CategoryHandler{Categories: categories}
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	catType := c.Query("type")
	categories, err := h.Categories.List(user.ID, catType)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"categories": categories})
}

type createCategoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createCategoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	cat, err := h.Categories.Create(user.ID, req.Name, req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Categories.Delete(user.ID, uint(id)); err != nil {
		fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}
