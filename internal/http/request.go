package httpapp

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// bcryptMaxBytes is the longest password bcrypt accepts.
const bcryptMaxBytes = 72

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=80"`
	Email    string `json:"email" validate:"required,email,max=80"`
	Password string `json:"password" validate:"required,bcryptlen"`
}

type postRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=80"`
	Description string `json:"desc" validate:"max=255"`
	Body        string `json:"body" validate:"required,notblank"`
	Category    string `json:"category" validate:"required,notblank,max=80"`
	ImageID     *int64 `json:"img_id" validate:"omitempty,gt=0"`
}

type commentRequest struct {
	Body string `json:"body" validate:"required,notblank"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	return v
}

// decode reads a JSON body into dest and validates it.
func (s *Server) decode(r *http.Request, dest any) error {
	if err := readJSON(r.Body, dest); err != nil {
		return validationErrorf("invalid JSON body: %v", err)
	}
	if err := s.validate.Struct(dest); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, describeField(fe))
			}
			return validationErrorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required"
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", fe.Field(), bcryptMaxBytes)
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
