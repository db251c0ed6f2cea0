package controllers

import (
	"canteen-pos/models"
	"canteen-pos/services"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Sessions *services.SessionService
	Catalog  *services.CatalogService
}

// Login godoc
// @Summary Staff login
// @Description Log in with staff number and PIN. Staff with several branches must then pick one.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *SessionController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewError(models.ErrValidation, "staff # and PIN are required"))
		return
	}

	result, err := ctrl.Sessions.Login(c.Request.Context(), req.StaffID, req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Status == models.LoginPendingBranch {
		c.JSON(http.StatusOK, models.Response{
			Success: true,
			Message: "Select a branch",
			Data:    result,
		})
		return
	}

	result.CatalogLoaded = ctrl.preloadCatalog(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// SelectBranch godoc
// @Summary Select branch
// @Description Complete a pending login by choosing one of the staff member's branches
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.SelectBranchRequest true "Branch"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/branch [post]
func (ctrl *SessionController) SelectBranch(c *gin.Context) {
	var req models.SelectBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := ctrl.Sessions.SelectBranch(req.BranchID)
	if err != nil {
		respondError(c, err)
		return
	}

	result.CatalogLoaded = ctrl.preloadCatalog(c)
	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// GetSession godoc
// @Summary Current session
// @Description Get the active staff session
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/session [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	session, ok := ctrl.Sessions.Current()
	if !ok {
		respondError(c, models.NewError(models.ErrAuthentication, "no active session, please log in"))
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Session retrieved",
		Data:    session,
	})
}

// Logout godoc
// @Summary Logout
// @Description End the session and clear the cart, checkout and loaded catalog
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (ctrl *SessionController) Logout(c *gin.Context) {
	if err := ctrl.Sessions.Logout(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Logged out",
	})
}

// preloadCatalog loads the branch catalog after login. A failure leaves the
// catalog empty; the login still succeeds.
func (ctrl *SessionController) preloadCatalog(c *gin.Context) bool {
	if ctrl.Catalog == nil {
		return false
	}
	if _, err := ctrl.Catalog.Load(c.Request.Context(), false); err != nil {
		log.Printf("Catalog preload after login failed: %v", err)
		return false
	}
	return true
}
