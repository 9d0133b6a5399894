package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCreditRequest records a deposit or a spend; amounts may be JSON numbers or strings
type CreateCreditRequest struct {
	PartnerID  uint            `json:"partner_id" binding:"required"`
	BusinessID *uint           `json:"business_id"`
	Deposit    decimal.Decimal `json:"deposit"`
	Credit     decimal.Decimal `json:"credit"`
	Note       string          `json:"note"`
}

type UpdateCreditRequest struct {
	PartnerID  *uint            `json:"partner_id"`
	BusinessID *uint            `json:"business_id"`
	Deposit    *decimal.Decimal `json:"deposit"`
	Credit     *decimal.Decimal `json:"credit"`
	Note       *string          `json:"note"`
}

type CreditFilter struct {
	PartnerID  *uint
	BusinessID *uint
	Type       string

	// PartnerName and BusinessName match name substrings
	PartnerName  string
	BusinessName string
	// BusinessIDs is BusinessName resolved by business-service; nil means no restriction
	BusinessIDs  []uint
}

// CreditResponse renders amounts with two decimals
type CreditResponse struct {
	ID         uint      `json:"id"`
	PartnerID  uint      `json:"partner_id"`
	Partner    string    `json:"partner"`
	BusinessID *uint     `json:"business_id"`
	Business   string    `json:"business"`
	Deposit    string    `json:"deposit"`
	Credit     string    `json:"credit"`
	Note       string    `json:"note"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
}

type BalanceResponse struct {
	PartnerID uint   `json:"partner_id"`
	Deposit   string `json:"deposit"`
	Credit    string `json:"credit"`
	Balance   string `json:"balance"`
}
