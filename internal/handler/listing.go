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

type ListingHandler struct {
	listingService *service.ListingService
}

func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

func rawAdQuery(c *gin.Context) dto.RawAdQuery {
	return dto.RawAdQuery{
		CategorySlug:  c.Query("category"),
		GovernorateID: c.Query("governorate_id"),
		ConditionID:   c.Query("condition_id"),
		PriceTypeID:   c.Query("price_type_id"),
		MinPrice:      c.Query("min_price"),
		MaxPrice:      c.Query("max_price"),
		Negotiable:    c.Query("negotiable"),
		Search:        c.Query(constants.QueryParamSearch),
		SearchScope:   c.Query(constants.QueryParamScope),
		Sort:          c.Query(constants.QueryParamSort),
		Page:          c.Query(constants.QueryParamPage),
		PerPage:       c.Query(constants.QueryParamPerPage),
	}
}

func pageTotal(total int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(total) / perPage
	if int(total)%perPage != 0 {
		pages++
	}
	return pages
}

// List serves the storefront listing for the API surface. The page-size
// whitelist here is {12, 24, 48}; anything else coerces to the default.
func (h *ListingHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListAds")

	filter := rawAdQuery(c).Normalize(constants.APIPerPageOptions)

	ads, total, err := h.listingService.List(ctx, filter)
	if err != nil {
		logger.ErrorWithContext(ctx, "Listing ads failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing ads failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildPaginatedResponse(ads, total, filter.Page, filter.PerPage, pageTotal(total, filter.PerPage)))
}

// ListWeb serves the same query for the web surface, whose page-size
// whitelist is {5, 10, 20, 50, 100}.
func (h *ListingHandler) ListWeb(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListAdsWeb")

	filter := rawAdQuery(c).Normalize(constants.WebPerPageOptions)

	ads, total, err := h.listingService.List(ctx, filter)
	if err != nil {
		logger.ErrorWithContext(ctx, "Listing ads failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing ads failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildPaginatedResponse(ads, total, filter.Page, filter.PerPage, pageTotal(total, filter.PerPage)))
}

// Get returns one ad detail. Each successful fetch counts as a view.
func (h *ListingHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetAd")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid ad id", nil))
		return
	}

	ad, err := h.listingService.GetAd(ctx, uint(id))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Fetching ad failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, ad)
}

// Create posts a new ad for the caller, subject to the plan quota
func (h *ListingHandler) Create(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "CreateAd")

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	var req dto.CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid ad request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.Translate(err)))
		return
	}

	ad, err := h.listingService.CreateAd(ctx, userID, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Ad creation failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Ad creation failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, ad)
}

// MyAds lists the caller's own ads
func (h *ListingHandler) MyAds(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "MyAds")

	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized, nil))
		return
	}

	rawPage, _ := strconv.Atoi(c.Query(constants.QueryParamPage))
	rawPerPage, _ := strconv.Atoi(c.Query(constants.QueryParamPerPage))
	page := constants.NormalizePage(rawPage)
	perPage := constants.NormalizePerPage(rawPerPage, constants.WebPerPageOptions)

	ads, total, err := h.listingService.MyAds(ctx, userID, page, perPage)
	if err != nil {
		logger.ErrorWithContext(ctx, "Listing own ads failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Listing own ads failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildPaginatedResponse(ads, total, page, perPage, pageTotal(total, perPage)))
}
