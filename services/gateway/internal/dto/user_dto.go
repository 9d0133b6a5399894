package dto

// CreateUserRequest represents the request to register a portal account
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=255"`
	Password  string `json:"password" binding:"required,min=4"`
	FirstName string `json:"firstName" binding:"max=255"`
	LastName  string `json:"lastName" binding:"max=255"`
	Email     string `json:"email" binding:"omitempty,email"`
	Telnum    string `json:"telnum" binding:"max=50"`
	Role      string `json:"role" binding:"required,oneof=Admin User"`
	Type      string `json:"type" binding:"required,oneof=vendor partner customer"`
	CompanyID string `json:"company_id"`
}

// UpdateUserRequest represents the request to update an account; nil fields are kept
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=255"`
	LastName  *string `json:"lastName" binding:"omitempty,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Telnum    *string `json:"telnum" binding:"omitempty,max=50"`
	Type      *string `json:"type" binding:"omitempty,oneof=vendor partner customer"`
	CompanyID *string `json:"company_id"`
	Enabled   *bool   `json:"enabled"`
}

// UserFilter represents the user list query
type UserFilter struct {
	Search string
}

// UserResponse is an identity provider account with its attributes flattened
type UserResponse struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	Enabled          bool   `json:"enabled"`
	CreatedTimestamp int64  `json:"createdTimestamp,omitempty"`
	Type             string `json:"type"`
	Telnum           string `json:"telnum"`
	CompanyID        string `json:"company_id"`
	Role             string `json:"role"`
	Company          string `json:"company"`
}
