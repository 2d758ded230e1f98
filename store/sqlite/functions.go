package sqlite

import "regexp"

// regexMatch backs the KGTK_REGEX user function: case-sensitive, unanchored
// regular-expression matching of pattern against value.
func regexMatch(value, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(value), nil
}
