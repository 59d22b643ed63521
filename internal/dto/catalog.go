package dto

type CategoryResponse struct {
	ID       uint   `json:"id"`
	NameEn   string `json:"name_en"`
	NameAr   string `json:"name_ar"`
	Slug     string `json:"slug"`
	Icon     string `json:"icon,omitempty"`
	IsActive bool   `json:"is_active"`
}

type ReferenceItemResponse struct {
	ID     uint   `json:"id"`
	NameEn string `json:"name_en"`
	NameAr string `json:"name_ar"`
}

type BannerResponse struct {
	ID        uint   `json:"id"`
	TitleEn   string `json:"title_en,omitempty"`
	TitleAr   string `json:"title_ar,omitempty"`
	Image     string `json:"image"`
	Link      string `json:"link,omitempty"`
	Placement string `json:"placement"`
}

type CreateCategoryRequest struct {
	NameEn string `json:"name_en" binding:"required"`
	NameAr string `json:"name_ar" binding:"required"`
	Slug   string `json:"slug" binding:"required,lowercase"`
	Icon   string `json:"icon"`
}

type UpdateCategoryRequest struct {
	NameEn   *string `json:"name_en"`
	NameAr   *string `json:"name_ar"`
	Icon     *string `json:"icon"`
	IsActive *bool   `json:"is_active"`
}

type CreateBannerRequest struct {
	TitleEn   string `json:"title_en"`
	TitleAr   string `json:"title_ar"`
	Image     string `json:"image" binding:"required"`
	Link      string `json:"link"`
	Placement string `json:"placement" binding:"required"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
}
