package dto

import (
	"strconv"
	"time"

	"github.com/souqkw/marketplace/internal/constants"
)

// AdFilter carries the normalized storefront query. All filters combine
// conjunctively; the bilingual text search is disjunctive across its
// candidate fields.
type AdFilter struct {
	CategorySlug  string
	GovernorateID *uint
	ConditionID   *uint
	PriceTypeID   *uint
	MinPrice      *float64
	MaxPrice      *float64
	Negotiable    *bool
	Search        string
	SearchScope   string
	Sort          string
	Page          int
	PerPage       int
}

// RawAdQuery is the unparsed query-string form of AdFilter.
type RawAdQuery struct {
	CategorySlug  string
	GovernorateID string
	ConditionID   string
	PriceTypeID   string
	MinPrice      string
	MaxPrice      string
	Negotiable    string
	Search        string
	SearchScope   string
	Sort          string
	Page          string
	PerPage       string
}

// Normalize turns the raw query into an AdFilter, applying the sentinel
// and whitelist-or-default policies. perPageOptions selects the surface
// whitelist (API vs web). Non-numeric bounds are dropped, never rejected.
func (q RawAdQuery) Normalize(perPageOptions []int) AdFilter {
	f := AdFilter{
		CategorySlug: q.CategorySlug,
		Search:       q.Search,
		SearchScope:  normalizeScope(q.SearchScope),
		Sort:         constants.NormalizeSort(q.Sort),
	}

	if q.CategorySlug == constants.FilterAll {
		f.CategorySlug = ""
	}

	f.GovernorateID = parseUint(q.GovernorateID)
	f.ConditionID = parseUint(q.ConditionID)
	f.PriceTypeID = parseUint(q.PriceTypeID)
	f.MinPrice = parseFloat(q.MinPrice)
	f.MaxPrice = parseFloat(q.MaxPrice)

	switch q.Negotiable {
	case "", constants.FilterAll:
		// no filter
	case "true", "1", "yes":
		v := true
		f.Negotiable = &v
	case "false", "0", "no":
		v := false
		f.Negotiable = &v
	}

	page, _ := strconv.Atoi(q.Page)
	f.Page = constants.NormalizePage(page)

	perPage, _ := strconv.Atoi(q.PerPage)
	f.PerPage = constants.NormalizePerPage(perPage, perPageOptions)

	return f
}

func normalizeScope(scope string) string {
	switch scope {
	case constants.SearchScopeProduct, constants.SearchScopeCategory:
		return scope
	default:
		return constants.SearchScopeAll
	}
}

func parseUint(s string) *uint {
	if s == "" || s == constants.FilterAll {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

type CreateAdRequest struct {
	TitleEn       string   `json:"title_en" binding:"required,max=200"`
	TitleAr       string   `json:"title_ar" binding:"required,max=200"`
	DescriptionEn string   `json:"description_en"`
	DescriptionAr string   `json:"description_ar"`
	Price         float64  `json:"price" binding:"min=0"`
	IsNegotiable  bool     `json:"is_negotiable"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	ConditionID   uint     `json:"condition_id" binding:"required"`
	PriceTypeID   uint     `json:"price_type_id" binding:"required"`
	GovernorateID uint     `json:"governorate_id" binding:"required"`
	Images        []string `json:"images" binding:"max=10"`
}

type AdImageResponse struct {
	Path      string `json:"path"`
	IsPrimary bool   `json:"is_primary"`
}

type AdResponse struct {
	ID            uint              `json:"id"`
	TitleEn       string            `json:"title_en"`
	TitleAr       string            `json:"title_ar"`
	DescriptionEn string            `json:"description_en,omitempty"`
	DescriptionAr string            `json:"description_ar,omitempty"`
	Price         float64           `json:"price"`
	IsNegotiable  bool              `json:"is_negotiable"`
	Status        string            `json:"status"`
	IsFeatured    bool              `json:"is_featured"`
	ViewsCount    int64             `json:"views_count"`
	CategoryID    uint              `json:"category_id"`
	ConditionID   uint              `json:"condition_id"`
	PriceTypeID   uint              `json:"price_type_id"`
	GovernorateID uint              `json:"governorate_id"`
	UserID        uint              `json:"user_id"`
	Images        []AdImageResponse `json:"images,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
