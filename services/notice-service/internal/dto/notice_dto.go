package dto

type CreateNoticeRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Content   string `json:"content"`
	Level     string `json:"level"`
	CompanyID *uint  `json:"company_id"`
}

type UpdateNoticeRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255"`
	Content   *string `json:"content"`
	Level     *string `json:"level"`
	CompanyID *uint   `json:"company_id"`
}

// NoticeFilter narrows the notice list. CompanyID keeps that company's notices plus the ones addressed to nobody in particular.
type NoticeFilter struct {
	Title     string
	Level     string
	CompanyID *uint
}
