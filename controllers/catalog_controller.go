package controllers

import (
	"canteen-pos/models"
	"canteen-pos/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *services.CatalogService
}

// GetCatalog godoc
// @Summary Branch catalog
// @Description Get the categories and products of the session's branch. Served from cache when younger than the TTL.
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Param refresh query bool false "Bypass the cache"
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /catalog [get]
func (ctrl *CatalogController) GetCatalog(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	snapshot, err := ctrl.Catalog.Load(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Catalog retrieved",
		Data:    snapshot,
	})
}

// GetProducts godoc
// @Summary Loaded products
// @Description List products of the loaded catalog sorted by name
// @Tags Catalog
// @Security BearerAuth
// @Produce json
// @Param category_id query int false "Filter by category"
// @Success 200 {object} models.ListResponse
// @Router /catalog/products [get]
func (ctrl *CatalogController) GetProducts(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.DefaultQuery("category_id", "0"), 10, 64)

	products, err := ctrl.Catalog.Products(categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ListResponse{
		Success: true,
		Message: "Products retrieved",
		Data:    products,
		Meta:    models.ListMeta{Page: 1, Limit: len(products), TotalItems: len(products), TotalPages: 1},
	})
}
