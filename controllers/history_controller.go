package controllers

import (
	"canteen-pos/models"
	"canteen-pos/services"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageLimit = 100

type HistoryController struct {
	History *services.HistoryService
}

// GetTransactions godoc
// @Summary Transaction history
// @Description Get the transactions committed on this terminal, most recent first
// @Tags History
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page, at most 100" default(20)
// @Success 200 {object} models.ListResponse
// @Router /transactions [get]
func (ctrl *HistoryController) GetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	all := ctrl.History.List()
	total := len(all)
	start := total
	if page-1 <= total/limit {
		start = (page - 1) * limit
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Message: "Transactions retrieved",
		Data:    all[start:end],
		Meta: models.ListMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetTransaction godoc
// @Summary Transaction detail
// @Tags History
// @Security BearerAuth
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /transactions/{id} [get]
func (ctrl *HistoryController) GetTransaction(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tx, err := ctrl.History.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Transaction retrieved",
		Data:    tx,
	})
}
