package filewatcher

import (
	"fmt"
	"os"

	"github.com/ajkula/cppwatch/domain/model"
)

// statFingerprint reads the (mtime, size) pair used as the change proxy.
// A missing path maps to ErrFileVanished so the watch loop can apply its
// fail-fast policy.
func statFingerprint(path string) (model.Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Fingerprint{}, fmt.Errorf("%w: %s", model.ErrFileVanished, path)
		}
		return model.Fingerprint{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return model.Fingerprint{}, fmt.Errorf("%w: %s is not a regular file", model.ErrFileVanished, path)
	}
	return model.Fingerprint{ModTime: info.ModTime(), Size: info.Size()}, nil
}
