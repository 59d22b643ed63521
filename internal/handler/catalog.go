package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	apperrors "github.com/souqkw/marketplace/internal/errors"
	"github.com/souqkw/marketplace/internal/service"
	ctxutil "github.com/souqkw/marketplace/pkg/context"
	"github.com/souqkw/marketplace/pkg/validation"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListCategories")

	categories, err := h.catalogService.ListCategories(ctx, true)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing categories failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: categories})
}

func (h *CatalogHandler) ListConditions(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListConditions")

	items, err := h.catalogService.ListConditions(ctx)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing conditions failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: items})
}

func (h *CatalogHandler) ListPriceTypes(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListPriceTypes")

	items, err := h.catalogService.ListPriceTypes(ctx)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing price types failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: items})
}

func (h *CatalogHandler) ListGovernorates(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListGovernorates")

	items, err := h.catalogService.ListGovernorates(ctx)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing governorates failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: items})
}

func (h *CatalogHandler) ListBanners(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListBanners")

	placement := c.DefaultQuery("placement", "home")
	banners, err := h.catalogService.ListBanners(ctx, placement)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing banners failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: banners})
}

// Admin endpoints

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateCategory")

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	category, err := h.catalogService.CreateCategory(ctx, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Category creation failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "UpdateCategory")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid category id", nil))
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	category, err := h.catalogService.UpdateCategory(ctx, uint(id), &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Category update failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) CreateBanner(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateBanner")

	var req dto.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	banner, err := h.catalogService.CreateBanner(ctx, &req)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Banner creation failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, banner)
}
