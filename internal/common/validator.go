package common

import (
	"fmt"

	"github.com/go-playground/validator"
)

type ConfigValidator struct {
	Validator *validator.Validate
}

func (cv *ConfigValidator) Validate(i interface{}) error {
	if cv.Validator == nil {
		cv.Validator = validator.New()
	}
	if err := cv.Validator.Struct(i); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return nil
}
