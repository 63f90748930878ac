package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/budgetms/budget_management_app/internal/core/domain"
	"github.com/budgetms/budget_management_app/internal/core/services"
	"github.com/budgetms/budget_management_app/internal/dto"
	"github.com/budgetms/budget_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// cashRequestHandler handles HTTP requests related to cash requests.
type cashRequestHandler struct {
	cashRequestService *services.CashRequestService
}

func newCashRequestHandler(crs *services.CashRequestService) *cashRequestHandler {
	return &cashRequestHandler{cashRequestService: crs}
}

// createCashRequest godoc
// @Summary Create a cash request
// @Description Creates a PENDING cash request against an approved budget with sufficient remaining balance
// @Tags cash-requests
// @Accept  json
// @Produce  json
// @Param   cashRequest body dto.CreateCashRequestRequest true "Cash request details"
// @Success 201 {object} dto.CashRequestResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /cash-requests [post]
func (h *cashRequestHandler) createCashRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCashRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCashRequest", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	request, err := h.cashRequestService.CreateCashRequest(c.Request.Context(), req, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCashRequestProjection(request, principal.Role))
}

// listCashRequests godoc
// @Summary List cash requests
// @Description FINANCE/ADMIN see all records; STAFF see only their own. Supports status filter, purpose search, sorting, pagination.
// @Tags cash-requests
// @Produce  json
// @Success 200 {object} dto.ListCashRequestsResponse
// @Security BearerAuth
// @Router /cash-requests [get]
func (h *cashRequestHandler) listCashRequests(c *gin.Context) {
	var params dto.ListCashRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	requests, total, err := h.cashRequestService.ListCashRequests(c.Request.Context(), params, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	meta := dto.NewPageMeta(total, params.Page, params.PageSize)
	c.JSON(http.StatusOK, dto.ToListCashRequestsResponse(requests, principal.Role, meta))
}

// getCashRequest godoc
// @Summary Get a cash request by ID
// @Description Non-owned records are reported as not found to STAFF callers
// @Tags cash-requests
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Success 200 {object} dto.CashRequestResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /cash-requests/{id} [get]
func (h *cashRequestHandler) getCashRequest(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	request, err := h.cashRequestService.GetCashRequestByID(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashRequestProjection(request, principal.Role))
}

// updateCashRequest godoc
// @Summary Update a cash request
// @Description Tagged update: amount/purpose by the owner while PENDING or by FINANCE; status transitions by FINANCE only
// @Tags cash-requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Param   update body dto.UpdateCashRequestRequest true "Fields to update"
// @Success 200 {object} dto.CashRequestResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Invalid state"
// @Security BearerAuth
// @Router /cash-requests/{id} [patch]
func (h *cashRequestHandler) updateCashRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCashRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateCashRequest", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	request, err := h.cashRequestService.UpdateCashRequest(c.Request.Context(), c.Param("id"), req, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashRequestProjection(request, principal.Role))
}

// deleteCashRequest godoc
// @Summary Delete a cash request
// @Description FINANCE unconditionally; the owner only while PENDING
// @Tags cash-requests
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /cash-requests/{id} [delete]
func (h *cashRequestHandler) deleteCashRequest(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	if err := h.cashRequestService.DeleteCashRequest(c.Request.Context(), c.Param("id"), principal); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// approveCashRequest godoc
// @Summary Approve a pending cash request
// @Description FINANCE only; exactly one of any concurrent attempts succeeds
// @Tags cash-requests
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Success 200 {object} dto.CashRequestResponse
// @Failure 409 {object} map[string]string "Request is not PENDING"
// @Security BearerAuth
// @Router /cash-requests/{id}/approve [post]
func (h *cashRequestHandler) approveCashRequest(c *gin.Context) {
	h.transition(c, h.cashRequestService.ApproveCashRequest)
}

// rejectCashRequest godoc
// @Summary Reject a pending cash request
// @Tags cash-requests
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Success 200 {object} dto.CashRequestResponse
// @Security BearerAuth
// @Router /cash-requests/{id}/reject [post]
func (h *cashRequestHandler) rejectCashRequest(c *gin.Context) {
	h.transition(c, h.cashRequestService.RejectCashRequest)
}

// disburseCashRequest godoc
// @Summary Disburse an approved cash request
// @Description FINANCE only; disbursement does not consume the budget balance
// @Tags cash-requests
// @Produce  json
// @Param   id path string true "Cash request ID"
// @Success 200 {object} dto.CashRequestResponse
// @Security BearerAuth
// @Router /cash-requests/{id}/disburse [post]
func (h *cashRequestHandler) disburseCashRequest(c *gin.Context) {
	h.transition(c, h.cashRequestService.DisburseCashRequest)
}

func (h *cashRequestHandler) transition(c *gin.Context, fn func(ctx context.Context, id string, p domain.Principal) (*domain.CashRequest, error)) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	request, err := fn(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCashRequestProjection(request, principal.Role))
}
