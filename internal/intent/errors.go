package intent

import "fmt"

func errf(format string, args ...any) error {
	return fmt.Errorf("intent: "+format, args...)
}
