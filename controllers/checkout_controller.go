package controllers

import (
	"canteen-pos/models"
	"canteen-pos/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	Checkout *services.CheckoutService
}

// GetCheckout godoc
// @Summary Checkout status
// @Description Get the current checkout attempt and its state
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /checkout [get]
func (ctrl *CheckoutController) GetCheckout(c *gin.Context) {
	attempt, err := ctrl.Checkout.Current()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout retrieved",
		Data:    attempt,
	})
}

// BeginCheckout godoc
// @Summary Start checkout
// @Description Open a checkout attempt for the cart with the chosen payment method
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.BeginCheckoutRequest true "Payment method"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /checkout/begin [post]
func (ctrl *CheckoutController) BeginCheckout(c *gin.Context) {
	var req models.BeginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	attempt, err := ctrl.Checkout.Begin(req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout started",
		Data:    attempt,
	})
}

// PayCash godoc
// @Summary Pay with cash
// @Description Settle the cart with the cash received. The change due is returned with the transaction.
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CashPaymentRequest true "Cash received"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /checkout/cash [post]
func (ctrl *CheckoutController) PayCash(c *gin.Context) {
	var req models.CashPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tx, err := ctrl.Checkout.PayCash(c.Request.Context(), req.Tendered)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Payment completed",
		Data:    tx,
	})
}

// LookupStudent godoc
// @Summary Student balance
// @Description Look up the student and balance behind a card
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Param card path string true "Card ID"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /checkout/students/{card} [get]
func (ctrl *CheckoutController) LookupStudent(c *gin.Context) {
	student, err := ctrl.Checkout.LookupStudent(c.Request.Context(), c.Param("card"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Student found",
		Data:    student,
	})
}

// PayCard godoc
// @Summary Pay with student card
// @Description Charge the cart total to a student card
// @Tags Checkout
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CardPaymentRequest true "Card"
// @Success 201 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /checkout/card [post]
func (ctrl *CheckoutController) PayCard(c *gin.Context) {
	var req models.CardPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewError(models.ErrValidation, "card ID is required"))
		return
	}

	tx, err := ctrl.Checkout.PayCard(c.Request.Context(), req.CardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Payment completed",
		Data:    tx,
	})
}

// CancelCheckout godoc
// @Summary Cancel checkout
// @Description Abandon the checkout attempt. The cart is kept.
// @Tags Checkout
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /checkout [delete]
func (ctrl *CheckoutController) CancelCheckout(c *gin.Context) {
	if err := ctrl.Checkout.Cancel(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Checkout cancelled",
	})
}
