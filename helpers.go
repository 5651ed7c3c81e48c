package coviddash

import (
	"fmt"
	"strings"
)

// *********** Other ***********

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}

// validName checks a column name. Names come from CSV headers so spaces and slashes
// ("Country/Region", "New cases") are allowed; quotes and separators are not.
func validName(name string) error {
	const illegal = "\"'`,;\n\r\t"

	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty column name")
	}

	if strings.ContainsAny(name, illegal) {
		return fmt.Errorf("illegal character in column name %q", name)
	}

	return nil
}
