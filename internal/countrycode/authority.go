package countrycode

import (
	"github.com/biter777/countries"
)

// Authority maps an official country name to its ISO alpha-3 code
type Authority interface {
	Alpha3(name string) (string, bool)
}

// CountriesAuthority looks names up in the ISO 3166 registry bundled with
// github.com/biter777/countries
type CountriesAuthority struct{}

// Alpha3 implements Authority
func (CountriesAuthority) Alpha3(name string) (string, bool) {
	c := countries.ByName(name)
	if c == countries.Unknown {
		return "", false
	}
	code := c.Alpha3()
	if len(code) != 3 {
		return "", false
	}
	return code, true
}

// StaticAuthority resolves names from a fixed table
type StaticAuthority map[string]string

// Alpha3 implements Authority
func (s StaticAuthority) Alpha3(name string) (string, bool) {
	code, ok := s[name]
	return code, ok && code != ""
}
