package registration

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the minimum password length in UTF-16 code units.
const MinPasswordLength = 8

// Messages shown for each failing rule.
const (
	MsgNameRequired      = "Full name is required"
	MsgUsernameRequired  = "Username is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email format is invalid"
	MsgPasswordRequired  = "Password is required"
	MsgPasswordTooShort  = "Password must be at least 8 characters"
	MsgConfirmRequired   = "Please confirm password"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgGenderRequired    = "Gender is required"
	MsgHobbiesRequired   = "Please select at least one hobby"
	MsgCountryRequired   = "Country is required"
)

// emailShape is loose and unanchored: something@something.something.
// RE2's \S only excludes ASCII whitespace, so the class also excludes
// vertical tab, Unicode separators and the BOM.
var emailShape = regexp.MustCompile(`[^\s\v\p{Z}\x{FEFF}]+@[^\s\v\p{Z}\x{FEFF}]+\.[^\s\v\p{Z}\x{FEFF}]+`)

// Errors maps a field to its single client-side message. A validation pass
// always produces a fresh map.
type Errors map[Field]string

// Has reports whether field has a message.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// rules mirrors FormState with validator tags. validator stops at the first
// failing tag of a field, so tag order is rule priority.
type rules struct {
	Name            string   `json:"name" validate:"notblank"`
	Username        string   `json:"username" validate:"notblank"`
	Email           string   `json:"email" validate:"notblank,emailshape"`
	Password        string   `json:"password" validate:"required,minchars=8"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	Gender          string   `json:"gender" validate:"required"`
	Hobbies         []string `json:"hobbies" validate:"min=1"`
	Country         string   `json:"country" validate:"required"`
}

// messages maps field/tag pairs to the message shown for them.
var messages = map[Field]map[string]string{
	FieldName:            {"notblank": MsgNameRequired},
	FieldUsername:        {"notblank": MsgUsernameRequired},
	FieldEmail:           {"notblank": MsgEmailRequired, "emailshape": MsgEmailInvalid},
	FieldPassword:        {"required": MsgPasswordRequired, "minchars": MsgPasswordTooShort},
	FieldConfirmPassword: {"required": MsgConfirmRequired, "eqfield": MsgPasswordsMismatch},
	FieldGender:          {"required": MsgGenderRequired},
	FieldHobbies:         {"min": MsgHobbiesRequired},
	FieldCountry:         {"required": MsgCountryRequired},
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the registration tags
// (notblank, emailshape, minchars) registered and JSON tag names used as
// field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", notBlank)
		_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
			return emailShape.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("minchars", minChars)
		validate = v
	})
	return validate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// minChars compares CharCount against the tag parameter.
func minChars(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return CharCount(fl.Field().String()) >= n
}

// CharCount returns the length of s in UTF-16 code units, the unit a
// browser reports for a string's length. Runes outside the BMP count twice.
func CharCount(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Validate runs every rule against f and returns the first failing message
// per field. An empty map means the form may be submitted.
func Validate(f FormState) Errors {
	out := Errors{}

	err := Validator().Struct(rules{
		Name:            f.Name,
		Username:        f.Username,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		Gender:          string(f.Gender),
		Hobbies:         f.Hobbies,
		Country:         f.Country,
	})
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		field := Field(fe.Field())
		if out.Has(field) {
			continue
		}
		if msg, ok := messages[field][fe.Tag()]; ok {
			out[field] = msg
		}
	}
	return out
}
