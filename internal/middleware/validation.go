package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

// RegisterValidators installs the custom binding rules on gin's validator and
// makes field errors report JSON names
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(jsonTagName)

	if err := v.RegisterValidation("eventcategory", validateEventCategory); err != nil {
		return err
	}
	return v.RegisterValidation("rsvpstatus", validateRSVPStatus)
}

func jsonTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validateEventCategory(fl validator.FieldLevel) bool {
	_, ok := models.ParseCategory(fl.Field().String())
	return ok
}

func validateRSVPStatus(fl validator.FieldLevel) bool {
	return models.RSVPStatus(fl.Field().String()).Valid()
}
