package service

import (
	"trainee_portal_backend/internal/util"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validationError(err error) error {
	return util.Validationf("%v", err)
}
