package enums

// Gender is the normalized gender stored on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// GenderFromCode maps the registration form's single-letter code to a Gender.
// Anything other than M or F maps to other.
func GenderFromCode(code string) Gender {
	switch code {
	case "M":
		return GenderMale
	case "F":
		return GenderFemale
	default:
		return GenderOther
	}
}

// IsValid reports whether the value matches a known Gender.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}
