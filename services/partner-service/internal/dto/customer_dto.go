package dto

type CreateCustomerRequest struct {
	Name             string `json:"name" binding:"required,max=255"`
	Telnum           string `json:"telnum" binding:"max=50"`
	ManagerID        string `json:"manager_id" binding:"max=255"`
	ManagerCompanyID string `json:"manager_company_id" binding:"max=255"`
}

type UpdateCustomerRequest struct {
	Name             *string `json:"name" binding:"omitempty,min=1,max=255"`
	Telnum           *string `json:"telnum" binding:"omitempty,max=50"`
	ManagerID        *string `json:"manager_id" binding:"omitempty,max=255"`
	ManagerCompanyID *string `json:"manager_company_id" binding:"omitempty,max=255"`
}

type CustomerFilter struct {
	Name             string
	ManagerID        string
	ManagerCompanyID string
}
