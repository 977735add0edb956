package files

import "fmt"

func regexpf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
