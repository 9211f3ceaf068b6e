package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zjrosen/regdash/internal/registration"
)

// registerRequest is the POST /register body with the API's own rules.
// They are stricter than the form's: real email syntax, catalog
// membership, and length caps.
type registerRequest struct {
	Name                 string   `json:"name" validate:"required,max=255"`
	Username             string   `json:"username" validate:"required,max=255"`
	Email                string   `json:"email" validate:"required,email,max=255"`
	Password             string   `json:"password" validate:"required,min=8,eqfield=PasswordConfirmation"`
	PasswordConfirmation string   `json:"password_confirmation"`
	Gender               string   `json:"gender" validate:"required,gender"`
	Hobbies              []string `json:"hobbies" validate:"required,min=1,dive,hobby"`
	Country              string   `json:"country" validate:"required,country"`
}

func (r registerRequest) payload() registration.Payload {
	return registration.Payload{
		Name:                 strings.TrimSpace(r.Name),
		Username:             strings.TrimSpace(r.Username),
		Email:                strings.TrimSpace(r.Email),
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
		Gender:               r.Gender,
		Hobbies:              r.Hobbies,
		Country:              r.Country,
	}
}

// fieldOrder is the order errors are reported in, matching the form.
var fieldOrder = []string{"name", "username", "email", "password", "gender", "hobbies", "country"}

func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return registration.Gender(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("hobby", func(fl validator.FieldLevel) bool {
		return registration.IsHobby(fl.Field().String())
	}))
	must(v.RegisterValidation("country", func(fl validator.FieldLevel) bool {
		return registration.IsCountry(fl.Field().String())
	}))
	return v
}

// validateRequest returns field errors in form order, one message per field.
func validateRequest(v *validator.Validate, req registerRequest) (*registration.FieldErrors, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	err := v.Struct(req)
	errs := registration.NewFieldErrors()
	if err == nil {
		return errs, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	byField := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if strings.HasPrefix(field, "hobbies[") {
			field = "hobbies"
		}
		if _, seen := byField[field]; !seen {
			byField[field] = ruleMessage(field, fe)
		}
	}
	for _, field := range fieldOrder {
		if msg, ok := byField[field]; ok {
			errs.Add(field, msg)
		}
	}
	return errs, nil
}

func ruleMessage(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s field is required.", label)
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("The %s field confirmation does not match.", label)
	case "gender", "hobby", "country":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
