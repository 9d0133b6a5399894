package dto

type CreatePartnerRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Telnum string `json:"telnum" binding:"max=50"`
	Level  string `json:"level"`
}

type UpdatePartnerRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=255"`
	Telnum *string `json:"telnum" binding:"omitempty,max=50"`
	Level  *string `json:"level"`
}

type PartnerFilter struct {
	Name  string
	Level string
}
