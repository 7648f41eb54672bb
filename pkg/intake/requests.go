package intake

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	"github.com/n1protocol/portal/pkg/catalog"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// ScalesRequest carries one set of self-reported wellbeing scales.
// Values outside 0..10 are a validation error, never clamped.
type ScalesRequest struct {
	Loved      int `json:"loved" validate:"min=0,max=10"`
	Suicidal   int `json:"suicidal" validate:"min=0,max=10"`
	Depression int `json:"depression" validate:"min=0,max=10"`
	Anxiety    int `json:"anxiety" validate:"min=0,max=10"`
	Hope       int `json:"hope" validate:"min=0,max=10"`
	Belonging  int `json:"belonging" validate:"min=0,max=10"`
}

// StoryRequest is a public ledger submission.
type StoryRequest struct {
	Story       string        `json:"story" validate:"required,min=10,max=10000"`
	DisplayName string        `json:"displayName" validate:"max=100"`
	IsAnonymous bool          `json:"isAnonymous"`
	Before      ScalesRequest `json:"before"`
	After       ScalesRequest `json:"after"`
	Consent     bool          `json:"consent"`
}

// DonationRequest records a receipt for an externally-submitted transaction.
type DonationRequest struct {
	AmountUSD     string `json:"amountUsd" validate:"required"`
	Currency      string `json:"currency" default:"USD" validate:"required,len=3"`
	TokenAmount   string `json:"tokenAmount" validate:"required"`
	TokenSymbol   string `json:"tokenSymbol" validate:"required"`
	ChainID       int64  `json:"chainId" validate:"required"`
	TxHash        string `json:"txHash" validate:"required"`
	WalletAddress string `json:"walletAddress" validate:"required"`
	DisplayName   string `json:"displayName" validate:"max=100"`
	Message       string `json:"message" validate:"max=500"`
	IsAnonymous   bool   `json:"isAnonymous"`
	// nil means not specified; donations default to the public wall.
	ShowOnWall *bool `json:"showOnWall"`
}

// PrescriberApplication is a public directory application.
type PrescriberApplication struct {
	Name         string `json:"name" validate:"required,max=200"`
	Credentials  string `json:"credentials" validate:"max=200"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=50"`
	Website      string `json:"website" validate:"omitempty,url"`
	Practice     string `json:"practice" validate:"max=200"`
	Address      string `json:"address" validate:"max=300"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	Country      string `json:"country" default:"US" validate:"required,max=100"`
	Telemedicine bool   `json:"telemedicine"`
	Insurance    bool   `json:"insurance"`
	Consent      bool   `json:"consent"`
}

// FeedbackRequest is a public feedback-form submission.
type FeedbackRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Type    string `json:"type" default:"other" validate:"required"`
	Message string `json:"message" validate:"required,min=2,max=5000"`
}

// TeamRequest is a volunteer application.
type TeamRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Languages string `json:"languages" validate:"max=200"`
	Location  string `json:"location" validate:"max=200"`
	Message   string `json:"message" validate:"required,max=5000"`
}

// EmailSignupRequest is a newsletter signup.
type EmailSignupRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// checkRequest applies defaults and the struct's validation tags, converting
// tag failures into field violations for the 400 response body.
func checkRequest(req any) []apperrors.FieldViolation {
	if err := defaults.Set(req); err != nil {
		return []apperrors.FieldViolation{{Field: "request", Reason: err.Error()}}
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var tagErrs validator.ValidationErrors
	if !errors.As(err, &tagErrs) {
		return []apperrors.FieldViolation{{Field: "request", Reason: "malformed request"}}
	}

	violations := make([]apperrors.FieldViolation, 0, len(tagErrs))
	for _, fe := range tagErrs {
		violations = append(violations, apperrors.FieldViolation{
			Field:  fe.Namespace(),
			Reason: reasonForTag(fe),
		})
	}
	return violations
}

func reasonForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func (r *DonationRequest) violations() []apperrors.FieldViolation {
	v := checkRequest(r)

	if r.TokenSymbol != "" && !catalog.IsSupportedSymbol(r.TokenSymbol) {
		v = append(v, apperrors.FieldViolation{Field: "tokenSymbol", Reason: "unsupported token"})
	} else if r.TokenSymbol != "" && r.ChainID != 0 {
		if _, ok := catalog.TokenListing(r.TokenSymbol, r.ChainID); !ok {
			v = append(v, apperrors.FieldViolation{Field: "chainId", Reason: "token is not listed on this chain"})
		}
	}
	if r.TxHash != "" && !txHashPattern.MatchString(r.TxHash) {
		v = append(v, apperrors.FieldViolation{Field: "txHash", Reason: "must be a 0x-prefixed 32-byte hex hash"})
	}
	if r.WalletAddress != "" && !common.IsHexAddress(r.WalletAddress) {
		v = append(v, apperrors.FieldViolation{Field: "walletAddress", Reason: "must be a valid hex address"})
	}
	for field, raw := range map[string]string{"amountUsd": r.AmountUSD, "tokenAmount": r.TokenAmount} {
		if raw == "" {
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			v = append(v, apperrors.FieldViolation{Field: field, Reason: "must be a decimal number"})
			continue
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			v = append(v, apperrors.FieldViolation{Field: field, Reason: "must be positive"})
		}
	}
	return v
}
