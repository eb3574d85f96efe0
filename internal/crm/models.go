package crm

import (
	"errors"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("client not found")
	ErrDuplicateEmail = errors.New("Email already registered")
	ErrInvalidPhone   = errors.New("invalid phone number")
)

// DefaultRegion is used for phone numbers written without a country code.
const DefaultRegion = "US"

type Client struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	OrderCount int             `json:"orderCount"`
	LTV        decimal.Decimal `json:"ltv"`
}

type Input struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=500"`
}

// Normalize trims fields, lower-cases the email and rewrites the phone
// number as E.164.
func (in Input) Normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return in, err
	}
	in.Phone = phone
	return in, nil
}

func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}
