package constants

// Pagination Query Parameters
const (
	QueryParamPage    = "page"
	QueryParamPerPage = "per_page"
	QueryParamSearch  = "search"
	QueryParamScope   = "search_in"
	QueryParamSort    = "sort"
)

// Sort keys accepted by the storefront listing query. Anything else
// falls back to SortNewest.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortPopular   = "popular"
)

// Search scopes for the bilingual free-text filter
const (
	SearchScopeProduct  = "product"
	SearchScopeCategory = "category"
	SearchScopeAll      = "all"
)

// FilterAll is the sentinel meaning "no filter" for category slug and
// negotiability parameters.
const FilterAll = "all"

// Page-size policy: each surface has an explicit whitelist and any other
// requested value is silently coerced to DefaultPerPage. This is
// whitelist-or-default, never an error.
const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MinPage        = 1
)

var (
	APIPerPageOptions = []int{12, 24, 48}
	WebPerPageOptions = []int{5, 10, 20, 50, 100}
)

// NormalizePerPage coerces a requested page size against a whitelist.
func NormalizePerPage(requested int, options []int) int {
	for _, opt := range options {
		if requested == opt {
			return requested
		}
	}
	return DefaultPerPage
}

// NormalizeSort maps a requested sort key onto the accepted enumeration.
// Both spellings of the price sorts are accepted.
func NormalizeSort(requested string) string {
	switch requested {
	case SortNewest, SortOldest, SortPopular:
		return requested
	case SortPriceLow, "price-low":
		return SortPriceLow
	case SortPriceHigh, "price-high":
		return SortPriceHigh
	default:
		return SortNewest
	}
}

// NormalizePage clamps the requested page number.
func NormalizePage(requested int) int {
	if requested < MinPage {
		return DefaultPage
	}
	return requested
}
