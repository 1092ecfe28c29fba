package wizard

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var phonePattern = regexp.MustCompile(`^\+?\d{7,15}$`)

// national formats with separators are fine, so strip them before matching
func normalizePhone(s string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return replacer.Replace(s)
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(normalizePhone(fl.Field().String()))
	})
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"January 2, 2006",
}

func parseableDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// Validate checks every submitted value against its field definition and
// returns one message per failing field. An empty map means the form can be
// submitted.
func Validate(fields []FieldDef, values map[string]string) map[string]string {
	errs := map[string]string{}

	for _, f := range fields {
		value := strings.TrimSpace(values[f.ID])

		if value == "" {
			if f.Required {
				errs[f.ID] = f.Label + " is required"
			}
			continue
		}

		switch f.Type {
		case "email":
			if validate.Var(value, "email") != nil {
				errs[f.ID] = "Enter a valid email address"
			}
		case "phone":
			if validate.Var(value, "phone") != nil {
				errs[f.ID] = "Enter a valid phone number"
			}
		case "number":
			if validate.Var(value, "numeric") != nil {
				errs[f.ID] = "Enter a number"
			}
		case "date":
			if !parseableDate(value) {
				errs[f.ID] = "Enter a valid date"
			}
		}
	}

	return errs
}
