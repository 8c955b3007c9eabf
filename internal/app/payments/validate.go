package payments

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// normalizeCard strips the grouping spaces a card form inserts.
func normalizeCard(d CardDetails) CardDetails {
	d.CardNumber = strings.ReplaceAll(d.CardNumber, " ", "")
	d.CardholderName = strings.TrimSpace(d.CardholderName)
	d.Email = strings.TrimSpace(d.Email)
	d.Zip = strings.TrimSpace(d.Zip)
	return d
}

func (s *Service) validateCard(d CardDetails) error {
	err := s.validate.Struct(d)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = "failed " + fe.Tag()
	}
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: "invalid payment details", Details: details}
}
