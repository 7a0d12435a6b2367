package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/shopfront/backend/internal/application/identity"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
)

// UserHandler serves registration, sessions, profile and contacts
type UserHandler struct {
	BaseHandler
	authService    *appidentity.AuthService
	accountService *appidentity.AccountService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *appidentity.AuthService, accountService *appidentity.AccountService) *UserHandler {
	return &UserHandler{
		authService:    authService,
		accountService: accountService,
	}
}

// Register godoc
// @Summary      Register an account
// @Description  Create an inactive buyer or shop account and mail a confirmation token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RegisterRequest true "Account fields"
// @Success      201 {object} dto.Response{Data=appidentity.AccountResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// ConfirmEmail godoc
// @Summary      Confirm an email address
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.ConfirmRequest true "Email and mailed token"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /user/register/confirm [post]
func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	var req appidentity.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.authService.ConfirmEmail(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// Login godoc
// @Summary      Log in
// @Description  Exchange credentials of an active account for a token pair
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginRequest true "Credentials"
// @Success      200 {object} dto.Response{Data=appidentity.TokenResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// RefreshToken godoc
// @Summary      Refresh the token pair
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{Data=appidentity.TokenResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /user/login/refresh [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req appidentity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tokens, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout godoc
// @Summary      Log out
// @Description  Revoke the presented access token
// @Tags         user
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	input := appidentity.LogoutInput{AccountID: actor.AccountID}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		input.TTL = claims.GetRemainingTTL()
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// RequestPasswordReset godoc
// @Summary      Request a password reset
// @Description  Mail a reset token. Unknown addresses get the same answer.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.PasswordResetRequest true "Email"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /user/password_reset [post]
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req appidentity.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// ResetPassword godoc
// @Summary      Set a new password with a reset token
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.PasswordResetConfirmRequest true "Email, token and new password"
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Router       /user/password_reset/confirm [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req appidentity.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c)
}

// GetDetails godoc
// @Summary      Get account details
// @Tags         user
// @Produce      json
// @Success      200 {object} dto.Response{Data=appidentity.AccountResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/details [get]
func (h *UserHandler) GetDetails(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetDetails(c.Request.Context(), actor.AccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// UpdateDetails godoc
// @Summary      Update account details
// @Description  Partial update; omitted fields keep their value
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.UpdateDetailsRequest true "Fields to change"
// @Success      200 {object} dto.Response{Data=appidentity.AccountResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/details [post]
func (h *UserHandler) UpdateDetails(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appidentity.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	account, err := h.accountService.UpdateDetails(c.Request.Context(), actor.AccountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ListContacts godoc
// @Summary      List delivery contacts
// @Tags         user
// @Produce      json
// @Success      200 {object} dto.Response{Data=[]appidentity.ContactResponse}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [get]
func (h *UserHandler) ListContacts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	contacts, err := h.accountService.ListContacts(c.Request.Context(), actor.AccountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// AddContact godoc
// @Summary      Add a delivery contact
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.ContactRequest true "Contact"
// @Success      201 {object} dto.Response{Data=appidentity.ContactResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [post]
func (h *UserHandler) AddContact(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appidentity.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	contact, err := h.accountService.AddContact(c.Request.Context(), actor.AccountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// UpdateContact godoc
// @Summary      Update a delivery contact
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.UpdateContactRequest true "Contact with its id"
// @Success      200 {object} dto.Response{Data=appidentity.ContactResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [put]
func (h *UserHandler) UpdateContact(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appidentity.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	contact, err := h.accountService.UpdateContact(c.Request.Context(), actor.AccountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// DeleteContacts godoc
// @Summary      Delete delivery contacts
// @Description  Contacts of other accounts and unknown ids are ignored
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body appidentity.DeleteContactsRequest true "Contact ids"
// @Success      200 {object} dto.Response{Data=CountData}
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /user/contact [delete]
func (h *UserHandler) DeleteContacts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req appidentity.DeleteContactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	deleted, err := h.accountService.DeleteContacts(c.Request.Context(), actor.AccountID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: deleted})
}
