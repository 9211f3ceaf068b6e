package registration

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validForm() FormState {
	return FormState{
		Name:            "Jane Doe",
		Username:        "janed",
		Email:           "jane@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Gender:          GenderFemale,
		Hobbies:         []string{"Reading"},
		Country:         "Canada",
	}
}

func TestValidate_ValidForm(t *testing.T) {
	errs := Validate(validForm())
	require.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidate_EmptyFormReportsEveryRequiredField(t *testing.T) {
	errs := Validate(FormState{})

	require.Equal(t, Errors{
		FieldName:            MsgNameRequired,
		FieldUsername:        MsgUsernameRequired,
		FieldEmail:           MsgEmailRequired,
		FieldPassword:        MsgPasswordRequired,
		FieldConfirmPassword: MsgConfirmRequired,
		FieldGender:          MsgGenderRequired,
		FieldHobbies:         MsgHobbiesRequired,
		FieldCountry:         MsgCountryRequired,
	}, errs)
}

func TestValidate_EachFieldRequired(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*FormState)
		field Field
		want  string
	}{
		{"name", func(f *FormState) { f.Name = "" }, FieldName, MsgNameRequired},
		{"name whitespace", func(f *FormState) { f.Name = "   " }, FieldName, MsgNameRequired},
		{"username", func(f *FormState) { f.Username = "\t" }, FieldUsername, MsgUsernameRequired},
		{"email", func(f *FormState) { f.Email = " " }, FieldEmail, MsgEmailRequired},
		{"password", func(f *FormState) { f.Password = ""; f.ConfirmPassword = "" }, FieldPassword, MsgPasswordRequired},
		{"confirm", func(f *FormState) { f.ConfirmPassword = "" }, FieldConfirmPassword, MsgConfirmRequired},
		{"gender", func(f *FormState) { f.Gender = "" }, FieldGender, MsgGenderRequired},
		{"hobbies nil", func(f *FormState) { f.Hobbies = nil }, FieldHobbies, MsgHobbiesRequired},
		{"hobbies empty", func(f *FormState) { f.Hobbies = []string{} }, FieldHobbies, MsgHobbiesRequired},
		{"country", func(f *FormState) { f.Country = "" }, FieldCountry, MsgCountryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.clear(&f)

			errs := Validate(f)
			require.Equal(t, tt.want, errs[tt.field])
		})
	}
}

func TestValidate_FirstRuleWins(t *testing.T) {
	f := validForm()
	f.Password = ""
	f.ConfirmPassword = "x"

	errs := Validate(f)
	require.Equal(t, MsgPasswordRequired, errs[FieldPassword])
	require.Equal(t, MsgPasswordsMismatch, errs[FieldConfirmPassword])
}

func TestValidate_EmailShape(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jane@example.com", true},
		{"a@b.c", true},
		{" padded@example.org ", true},
		{"jane@example", false},
		{"jane.example.com", false},
		{"@example.com", false},
		{"jane@.com", false},
		{"a@b.\u00a0", false},
		{"a@b.\v", false},
		{"a\u2028@b.c", false},
		{"a@b.\ufeff", false},
		{"ja\u00a0ne@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			f := validForm()
			f.Email = tt.email

			errs := Validate(f)
			if tt.valid {
				require.False(t, errs.Has(FieldEmail), "got %q", errs[FieldEmail])
			} else {
				require.Equal(t, MsgEmailInvalid, errs[FieldEmail])
			}
		})
	}
}

func TestValidate_PasswordLengthCountsUTF16Units(t *testing.T) {
	tests := []struct {
		name     string
		password string
		units    int
	}{
		{"two-byte runes", "ñññññññ", 7},
		{"ascii", "abcdefgh", 8},
		{"astral runes count twice", "👍👍👍👍", 8},
		{"combining marks count separately", "e\u0301e\u0301e\u0301e\u0301e\u0301", 10},
		{"short astral", "👍👍👍", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.units, CharCount(tt.password))

			f := validForm()
			f.Password = tt.password
			f.ConfirmPassword = tt.password
			errs := Validate(f)
			if tt.units < MinPasswordLength {
				require.Equal(t, MsgPasswordTooShort, errs[FieldPassword])
			} else {
				require.False(t, errs.Has(FieldPassword), "got %q", errs[FieldPassword])
			}
		})
	}
}

func TestValidate_SelectingOneHobbyClearsError(t *testing.T) {
	f := validForm()
	f.Hobbies = nil
	require.True(t, Validate(f).Has(FieldHobbies))

	f.ToggleHobby("Coding")
	require.False(t, Validate(f).Has(FieldHobbies))
}

func TestValidate_ValidationIsWholesale(t *testing.T) {
	f := FormState{}
	first := Validate(f)
	f.Name = "Jane"
	second := Validate(f)

	require.True(t, first.Has(FieldName))
	require.False(t, second.Has(FieldName), "a new pass must not carry stale messages")
	require.Len(t, second, len(first)-1)
}

func TestValidate_Property_EmailShape(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := validForm()
		if rapid.Bool().Draw(rt, "valid") {
			f.Email = rapid.StringMatching(`[a-z0-9._]{1,10}@[a-z0-9]{1,10}\.[a-z]{2,6}`).Draw(rt, "email")
			require.False(t, Validate(f).Has(FieldEmail))
		} else {
			f.Email = rapid.StringMatching(`[a-z0-9.]{1,20}`).Draw(rt, "email")
			require.Equal(t, MsgEmailInvalid, Validate(f)[FieldEmail])
		}
	})
}

func TestValidate_Property_PasswordLength(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := validForm()
		f.Password = rapid.StringMatching(`[a-zA-Z0-9]{0,20}`).Draw(rt, "password")
		f.ConfirmPassword = f.Password
		errs := Validate(f)

		switch {
		case f.Password == "":
			require.Equal(t, MsgPasswordRequired, errs[FieldPassword])
		case len(f.Password) < MinPasswordLength:
			require.Equal(t, MsgPasswordTooShort, errs[FieldPassword])
		default:
			require.False(t, errs.Has(FieldPassword))
			require.False(t, errs.Has(FieldConfirmPassword))
		}
	})
}

func TestCharCount_Property_MatchesUTF16Length(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		require.Equal(t, len(utf16.Encode([]rune(s))), CharCount(s))
	})
}

func TestValidate_Property_ConfirmMismatch(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := validForm()
		f.Password = rapid.StringMatching(`[a-z]{8,16}`).Draw(rt, "password")
		f.ConfirmPassword = f.Password + rapid.StringMatching(`[0-9]{1,4}`).Draw(rt, "suffix")

		errs := Validate(f)
		require.False(t, errs.Has(FieldPassword))
		require.Equal(t, MsgPasswordsMismatch, errs[FieldConfirmPassword])
	})
}

func TestValidate_Property_HobbiesNonEmpty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := validForm()
		f.Hobbies = rapid.SliceOfDistinct(rapid.SampledFrom(Hobbies), rapid.ID[string]).Draw(rt, "hobbies")

		require.Equal(t, len(f.Hobbies) == 0, Validate(f).Has(FieldHobbies))
	})
}

func TestFormState_ToggleHobbyKeepsOrderAndUniqueness(t *testing.T) {
	var f FormState
	f.ToggleHobby("Music")
	f.ToggleHobby("Art")
	f.ToggleHobby("Coding")
	f.ToggleHobby("Art")

	require.Equal(t, []string{"Music", "Coding"}, f.Hobbies)
	require.True(t, f.HasHobby("Coding"))
	require.False(t, f.HasHobby("Art"))
}

func TestFormState_PayloadRenamesConfirmation(t *testing.T) {
	p := validForm().Payload()

	require.Equal(t, "password1", p.PasswordConfirmation)
	require.Equal(t, "female", p.Gender)
	require.Equal(t, []string{"Reading"}, p.Hobbies)
}

func TestCatalogs(t *testing.T) {
	require.Len(t, Countries, 23)
	require.Len(t, Hobbies, 16)
	require.True(t, IsCountry("Canada"))
	require.False(t, IsCountry("Atlantis"))
	require.True(t, IsHobby("Coding"))
	require.Equal(t, "Female", GenderFemale.Label())
	require.False(t, Gender("robot").Valid())
	require.Equal(t, "", Capitalize(""))
}
