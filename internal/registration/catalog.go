package registration

import (
	"slices"
	"strings"
)

// Gender is one of the three accepted gender values.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders lists gender options in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Label returns the capitalized display label, e.g. "Female".
func (g Gender) Label() string {
	return Capitalize(string(g))
}

// Valid reports whether g is one of Genders.
func (g Gender) Valid() bool {
	return slices.Contains(Genders, g)
}

// Countries lists the selectable countries in display order.
var Countries = []string{
	"United States",
	"Canada",
	"United Kingdom",
	"Australia",
	"Germany",
	"France",
	"Japan",
	"China",
	"Brazil",
	"India",
	"South Korea",
	"Italy",
	"Spain",
	"Netherlands",
	"Sweden",
	"Norway",
	"Philippines",
	"Singapore",
	"Malaysia",
	"Thailand",
	"Indonesia",
	"Vietnam",
	"Other",
}

// Hobbies lists the selectable hobbies in display order.
var Hobbies = []string{
	"Reading",
	"Gaming",
	"Sports",
	"Music",
	"Cooking",
	"Travel",
	"Photography",
	"Art",
	"Writing",
	"Movies",
	"Dancing",
	"Hiking",
	"Swimming",
	"Cycling",
	"Gardening",
	"Coding",
}

// IsCountry reports whether c is in Countries.
func IsCountry(c string) bool {
	return slices.Contains(Countries, c)
}

// IsHobby reports whether h is in Hobbies.
func IsHobby(h string) bool {
	return slices.Contains(Hobbies, h)
}

// Capitalize upper-cases the first byte of s and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
