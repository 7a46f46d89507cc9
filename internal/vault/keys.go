package vault

import (
	"fmt"
	"strings"
)

// validateKey rejects keys that could escape the vault root once mapped
// onto a filesystem path or an object key.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("archive key is empty")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return fmt.Errorf("invalid archive key %q", key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("invalid archive key %q", key)
		}
	}
	return nil
}
