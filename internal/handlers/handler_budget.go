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

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService *services.BudgetService
}

func newBudgetHandler(bs *services.BudgetService) *budgetHandler {
	return &budgetHandler{budgetService: bs}
}

// createBudget godoc
// @Summary Create a new budget
// @Description Creates a departmental budget in PENDING
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthenticated"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createBudget", slog.String("error", err.Error()))
		respondBindError(c, err)
		return
	}

	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// listBudgets godoc
// @Summary List budgets
// @Description Lists budgets with status filter, department search, sorting and pagination
// @Tags budgets
// @Produce  json
// @Success 200 {object} dto.ListBudgetsResponse
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	budgets, total, err := h.budgetService.ListBudgets(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	meta := dto.NewPageMeta(total, params.Page, params.PageSize)
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets, meta))
}

// listApprovedBudgets godoc
// @Summary List approved budgets
// @Description Lists APPROVED budgets for the cash request form picker
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetResponse
// @Security BearerAuth
// @Router /budgets/approved [get]
func (h *budgetHandler) listApprovedBudgets(c *gin.Context) {
	budgets, err := h.budgetService.ListApprovedBudgets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	res := make([]dto.BudgetResponse, len(budgets))
	for i := range budgets {
		res[i] = dto.ToBudgetResponse(&budgets[i])
	}
	c.JSON(http.StatusOK, res)
}

// getBudget godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// approveBudget godoc
// @Summary Approve a pending budget
// @Description FINANCE only; the budget must currently be PENDING
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Budget is not PENDING"
// @Security BearerAuth
// @Router /budgets/{id}/approve [post]
func (h *budgetHandler) approveBudget(c *gin.Context) {
	h.transition(c, h.budgetService.ApproveBudget)
}

// rejectBudget godoc
// @Summary Reject a pending budget
// @Description FINANCE only; the budget must currently be PENDING
// @Tags budgets
// @Produce  json
// @Param   id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Security BearerAuth
// @Router /budgets/{id}/reject [post]
func (h *budgetHandler) rejectBudget(c *gin.Context) {
	h.transition(c, h.budgetService.RejectBudget)
}

func (h *budgetHandler) transition(c *gin.Context, fn func(ctx context.Context, id string, p domain.Principal) (*domain.Budget, error)) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": "Authentication required"})
		return
	}

	budget, err := fn(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}
