package validation

import (
	"regexp"
	"strings"

	"github.com/corebank/txledger/internal/domain/models"
)

// Account numbers are ACC- followed by exactly 5 alphanumeric characters.
var accountPattern = regexp.MustCompile(`^ACC-[A-Za-z0-9]{5}$`)

// recognizedCurrencies is the accepted ISO 4217-style code set.
var recognizedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "JPY": {}, "CHF": {}, "CAD": {},
	"AUD": {}, "NZD": {}, "CNY": {}, "INR": {}, "BRL": {}, "RUB": {},
	"KRW": {}, "MXN": {}, "SGD": {}, "HKD": {}, "NOK": {}, "SEK": {},
	"DKK": {}, "PLN": {}, "ZAR": {}, "THB": {}, "MYR": {}, "IDR": {},
}

const (
	msgAccountFormat = "Invalid account number format. Must follow format ACC-XXXXX where X is alphanumeric"
	msgCurrency      = "Invalid currency code. Must be a valid ISO 4217 currency code (e.g., USD, EUR, GBP, JPY)"
	msgAmountSign    = "Amount must be a positive number"
	msgAmountScale   = "Amount must have maximum 2 decimal places"
	msgType          = "type must be one of DEPOSIT, WITHDRAWAL, TRANSFER"
)

// ValidateCreateRequest checks every field of an inbound transaction and
// collects all violations. It never fails fast: a request with three bad
// fields yields three entries.
func ValidateCreateRequest(req *models.CreateTransactionRequest) []models.ValidationError {
	var errs []models.ValidationError

	errs = appendAccountErrors(errs, "fromAccount", req.FromAccount)
	errs = appendAccountErrors(errs, "toAccount", req.ToAccount)

	if req.Amount == nil {
		errs = append(errs, models.ValidationError{Field: "amount", Message: "amount is required"})
	} else {
		if req.Amount.Sign() <= 0 {
			errs = append(errs, models.ValidationError{Field: "amount", Message: msgAmountSign})
		}
		if req.Amount.Exponent() < -2 {
			errs = append(errs, models.ValidationError{Field: "amount", Message: msgAmountScale})
		}
	}

	if strings.TrimSpace(req.Currency) == "" {
		errs = append(errs, models.ValidationError{Field: "currency", Message: "currency is required"})
	} else if !IsRecognizedCurrency(req.Currency) {
		errs = append(errs, models.ValidationError{Field: "currency", Message: msgCurrency})
	}

	if strings.TrimSpace(req.Type) == "" {
		errs = append(errs, models.ValidationError{Field: "type", Message: "type is required"})
	} else if _, err := models.ParseTransactionType(req.Type); err != nil {
		errs = append(errs, models.ValidationError{Field: "type", Message: msgType})
	}

	return errs
}

func appendAccountErrors(errs []models.ValidationError, field, value string) []models.ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, models.ValidationError{Field: field, Message: field + " is required"})
	}
	if !accountPattern.MatchString(value) {
		return append(errs, models.ValidationError{Field: field, Message: msgAccountFormat})
	}
	return errs
}

// IsRecognizedCurrency reports whether code is an accepted ISO 4217-style
// currency code. Comparison is case-insensitive.
func IsRecognizedCurrency(code string) bool {
	_, ok := recognizedCurrencies[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
