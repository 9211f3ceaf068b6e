// Package registration holds the registration domain: the form state edited by
// the register view, its validation rules, the payload sent to the auth API,
// and the field-error shapes exchanged with it.
package registration

import "slices"

// Field identifies a form field. Values match the keys used in validation
// maps and, except for FieldConfirmPassword, the JSON keys of Payload.
type Field string

const (
	FieldName            Field = "name"
	FieldUsername        Field = "username"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldGender          Field = "gender"
	FieldHobbies         Field = "hobbies"
	FieldCountry         Field = "country"
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldName,
	FieldUsername,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldGender,
	FieldHobbies,
	FieldCountry,
}

// FormState is the mutable registration input owned by the register view.
// Hobbies keeps selection order and never holds duplicates.
type FormState struct {
	Name            string   `json:"name"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	Gender          Gender   `json:"gender"`
	Hobbies         []string `json:"hobbies"`
	Country         string   `json:"country"`
}

// ToggleHobby adds h when absent and removes it when present.
func (f *FormState) ToggleHobby(h string) {
	if i := slices.Index(f.Hobbies, h); i >= 0 {
		f.Hobbies = slices.Delete(f.Hobbies, i, i+1)
		return
	}
	f.Hobbies = append(f.Hobbies, h)
}

// HasHobby reports whether h is selected.
func (f FormState) HasHobby(h string) bool {
	return slices.Contains(f.Hobbies, h)
}

// Payload builds the request body for the register call.
func (f FormState) Payload() Payload {
	return Payload{
		Name:                 f.Name,
		Username:             f.Username,
		Email:                f.Email,
		Password:             f.Password,
		PasswordConfirmation: f.ConfirmPassword,
		Gender:               string(f.Gender),
		Hobbies:              slices.Clone(f.Hobbies),
		Country:              f.Country,
	}
}

// Payload is the register request body. confirmPassword travels as
// password_confirmation.
type Payload struct {
	Name                 string   `json:"name"`
	Username             string   `json:"username"`
	Email                string   `json:"email"`
	Password             string   `json:"password"`
	PasswordConfirmation string   `json:"password_confirmation"`
	Gender               string   `json:"gender"`
	Hobbies              []string `json:"hobbies"`
	Country              string   `json:"country"`
}

// User is the authenticated user as returned by the auth API.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Gender   string   `json:"gender"`
	Country  string   `json:"country"`
	Hobbies  []string `json:"hobbies"`
}
