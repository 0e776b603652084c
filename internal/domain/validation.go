package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError names the field an entity was rejected for.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.As find the first *ValidationError.
func (es ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func ValidateProduct(p Product) error {
	errs := structErrors(p)
	if p.Price.IsNegative() {
		errs = append(errs, &ValidationError{Field: "price", Reason: "must not be negative"})
	}
	return asError(errs)
}

func ValidateTransaction(t Transaction) error {
	errs := structErrors(t)
	if t.Date.IsZero() {
		errs = append(errs, &ValidationError{Field: "date", Reason: "is required"})
	}
	switch t.Type {
	case TransactionPurchase, TransactionSale:
		if t.Quantity <= 0 {
			errs = append(errs, &ValidationError{Field: "quantity", Reason: "must be positive for " + string(t.Type)})
		}
	case TransactionAdjustment:
		if t.Quantity == 0 {
			errs = append(errs, &ValidationError{Field: "quantity", Reason: "must not be zero"})
		}
	}
	if t.Price.IsNegative() {
		errs = append(errs, &ValidationError{Field: "price", Reason: "must not be negative"})
	}
	if !t.Total.Equal(t.Price.Mul(decimal.NewFromInt(int64(t.Quantity)))) {
		errs = append(errs, &ValidationError{Field: "total", Reason: "must equal quantity * price"})
	}
	return asError(errs)
}

func ValidateReportRequest(r GenerateReportRequest) error {
	return asError(structErrors(r))
}

func structErrors(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "entity", Reason: err.Error()}}
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &ValidationError{Field: fe.Field(), Reason: reason(fe)})
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func asError(errs ValidationErrors) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}
