package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"courtside/internal/service"
)

// RegisterValidators installs custom binding rules. "timeofday" accepts
// zero-padded HH:MM strings, the canonical wall-clock format throughout.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
			return service.ValidHHMM(fl.Field().String())
		})
	}
}
