package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/middleware"
	"github.com/souqkw/marketplace/internal/service"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/logger"
	"github.com/souqkw/marketplace/pkg/validation"
)

type SubscriptionHandler struct {
	subService *service.SubscriptionService
}

func NewSubscriptionHandler(subService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
	}
}

// ListPlans returns the purchasable plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListPlans")

	plans, err := h.subService.ListPlans(ctx)
	if err != nil {
		logger.ErrorWithContext(ctx, "Listing plans failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing plans failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: plans})
}

// ActivePlan returns the plan governing the caller and the remaining ad
// allowance
func (h *SubscriptionHandler) ActivePlan(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ActivePlan")

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	response, err := h.subService.GetActivePlan(ctx, userID)
	if err != nil {
		logger.ErrorWithContext(ctx, "Resolving active plan failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Resolving active plan failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}

// PreviewUpgrade prices a plan switch without committing it
func (h *SubscriptionHandler) PreviewUpgrade(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "PreviewUpgrade")

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	planID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid plan id", nil))
		return
	}

	response, err := h.subService.PreviewUpgrade(ctx, userID, uint(planID))
	if err != nil {
		logger.WarnWithContext(ctx, "Upgrade preview failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Upgrade preview failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}

// Upgrade switches the caller to the requested plan
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "Upgrade")

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.UpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid upgrade request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	response, err := h.subService.UpgradeSubscription(ctx, userID, req.PlanID)
	if err != nil {
		logger.WarnWithContext(ctx, "Upgrade failed").
			Uint("user_id", userID).
			Uint("plan_id", req.PlanID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Upgrade failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}

// CreatePlan is the admin endpoint for new plan master data
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreatePlan")

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	response, err := h.subService.CreatePlan(ctx, &req)
	if err != nil {
		logger.ErrorWithContext(ctx, "Plan creation failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Plan creation failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdatePlan is the admin endpoint for editing plan master data
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdatePlan")

	planID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid plan id", nil))
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	response, err := h.subService.UpdatePlan(ctx, uint(planID), &req)
	if err != nil {
		logger.ErrorWithContext(ctx, "Plan update failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Plan update failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, response)
}
