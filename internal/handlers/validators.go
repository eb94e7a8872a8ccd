package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tmtrack/time_tracker_app/internal/utils"
)

// validInviteCode backs the "invitecode" binding tag.
func validInviteCode(fl validator.FieldLevel) bool {
	return utils.IsValidInviteCode(fl.Field().String())
}

// registerCustomValidators hooks domain validations into gin's binding engine.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("invitecode", validInviteCode)
	}
}
