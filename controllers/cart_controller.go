package controllers

import (
	"canteen-pos/models"
	"canteen-pos/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	Cart *services.CartService
}

// GetCart godoc
// @Summary Current cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	view, err := ctrl.Cart.View()
	ctrl.respond(c, view, err, "Cart retrieved")
}

// AddItem godoc
// @Summary Add product
// @Description Add one unit of a catalog product to the cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddItemRequest true "Product"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	view, err := ctrl.Cart.AddItem(req.ProductID)
	ctrl.respond(c, view, err, "Item added")
}

// ScanBarcode godoc
// @Summary Scan barcode
// @Description Add the product behind a scanned barcode to the cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ScanRequest true "Barcode"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /cart/scan [post]
func (ctrl *CartController) ScanBarcode(c *gin.Context) {
	var req models.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, view, err := ctrl.Cart.AddByBarcode(c.Request.Context(), req.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: product.Name + " added",
		Data:    gin.H{"product": product, "cart": view},
	})
}

// IncrementItem godoc
// @Summary Increase quantity
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{id}/increment [post]
func (ctrl *CartController) IncrementItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.Cart.IncrementItem(id)
	ctrl.respond(c, view, err, "Cart updated")
}

// DecrementItem godoc
// @Summary Decrease quantity
// @Description Decrease the quantity of a line; a line at quantity one is removed
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{id}/decrement [post]
func (ctrl *CartController) DecrementItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.Cart.DecrementItem(id)
	ctrl.respond(c, view, err, "Cart updated")
}

// RemoveItem godoc
// @Summary Remove line
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{id} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.Cart.RemoveItem(id)
	ctrl.respond(c, view, err, "Item removed")
}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	view, err := ctrl.Cart.Clear()
	ctrl.respond(c, view, err, "Cart cleared")
}

func (ctrl *CartController) respond(c *gin.Context, view models.CartView, err error, message string) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: message,
		Data:    view,
	})
}
