package validation

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Kuwaiti subscriber numbers are 8 digits with no country prefix.
var kuwaitPhoneRe = regexp.MustCompile(`^\d{8}$`)

func kuwaitPhone(fl validator.FieldLevel) bool {
	return kuwaitPhoneRe.MatchString(fl.Field().String())
}

// RegisterBindings installs the custom rules on gin's binding engine.
// Call once at startup, before any request is served.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("kwphone", kuwaitPhone)
}
