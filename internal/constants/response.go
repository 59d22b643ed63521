package constants

// Standard Response Field Keys
const (
	ResponseFieldTotal     = "total"
	ResponseFieldPage      = "page"
	ResponseFieldPerPage   = "per_page"
	ResponseFieldPageTotal = "page_total"
	ResponseFieldData      = "data"

	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
)

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildPaginatedResponse(data any, total int64, page, perPage, pageTotal int) map[string]any {
	return map[string]any{
		ResponseFieldData:      data,
		ResponseFieldTotal:     total,
		ResponseFieldPage:      page,
		ResponseFieldPerPage:   perPage,
		ResponseFieldPageTotal: pageTotal,
	}
}
