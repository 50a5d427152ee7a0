package handler

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/usermgmt/backend/internal/service"
)

type normalizer interface {
	Normalize()
}

// 필드.태그 -> 사용자 메시지
var validationMessages = map[string]string{
	"FirstName.required":       "First name is required",
	"LastName.required":        "Last name is required",
	"Email.required":           "Email is required",
	"Email.email":              "Email should be valid email",
	"Password.required":        "Password is required",
	"Password.min":             "Password length should be at least 8 characters",
	"Role.required":            "Role is required!",
	"Role.oneof":               "Role is not valid",
	"TenantID.required_unless": "Tenant ID is required!",
	"Name.required":            "Tenant name is required",
	"Name.max":                 "Tenant name should be at most 100 characters",
	"Address.required":         "Tenant address is required",
	"Address.max":              "Tenant address should be at most 255 characters",
}

// bindRequest decodes the JSON body, trims it and validates the binding tags.
// Only the first violation is reported.
func bindRequest(c *gin.Context, req normalizer) error {
	if c.Request.Body == nil {
		return service.NewValidationError("invalid request")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return service.NewValidationError("invalid request")
	}
	req.Normalize()

	if err := binding.Validator.ValidateStruct(req); err != nil {
		return service.NewValidationError(firstViolation(err))
	}
	return nil
}

func firstViolation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	if msg, ok := validationMessages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
