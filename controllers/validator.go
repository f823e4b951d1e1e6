package controllers

import (
	"strconv"

	"github.com/kithly/kithly-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	MaxLimit     = 100
	DefaultPage  = 1
	DefaultLimit = 10
)

// RequestValidator handles input validation shared by the controllers.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	// zmphone: Zambian mobile number in any accepted local/E.164 form.
	_ = v.RegisterValidation("zmphone", func(fl validator.FieldLevel) bool {
		_, ok := services.NormalizeZambianPhone(fl.Field().String())
		return ok
	})
	return &RequestValidator{validate: v}
}

// ValidatePhone reports whether the raw value is an acceptable recipient
// phone number.
func (rv *RequestValidator) ValidatePhone(raw string) bool {
	return rv.validate.Var(raw, "zmphone") == nil
}

// ParsePagination extracts and clamps pagination parameters.
func ParsePagination(c *gin.Context) (int, int) {
	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limitInt = l
		if limitInt > MaxLimit {
			limitInt = MaxLimit
		}
	}

	return pageInt, limitInt
}

// respondServiceError writes a typed service error as JSON.
func respondServiceError(c *gin.Context, serr *services.ServiceError) {
	c.JSON(serr.StatusCode, gin.H{"error": serr.Message, "kind": serr.Kind})
}
