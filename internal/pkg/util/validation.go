package util

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateDTO 校验结构体，返回第一个失败的字段，通过时返回 nil
func ValidateDTO(dto any) validator.FieldError {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return vErrs[0]
		}
	}
	return nil
}
