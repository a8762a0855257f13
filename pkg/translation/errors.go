package translation

import "fmt"

// KeyError reports an invalid key in a config file.
type KeyError struct {
	File   string
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Key, e.Reason)
}
