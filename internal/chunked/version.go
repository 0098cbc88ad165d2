package chunked

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CurrentFormatVersion is the on-disk layout version this build writes
// and expects. Bump it whenever a chunk header or layout changes in a
// way that would misread an older savegame.
const CurrentFormatVersion = 1

const versionFileName = "__cb_version.txt"

// WriteVersionFile records CurrentFormatVersion at the root of a
// savegame directory.
func WriteVersionFile(dir string) error {
	path := filepath.Join(dir, versionFileName)
	return os.WriteFile(path, []byte(strconv.Itoa(CurrentFormatVersion)), 0o644)
}

// CheckVersionFile reads the format version recorded under dir, if any,
// and reports whether it matches CurrentFormatVersion. A missing file is
// treated as a fresh savegame and never mismatches.
func CheckVersionFile(dir string) (matched bool, onDisk int, err error) {
	path := filepath.Join(dir, versionFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return true, CurrentFormatVersion, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("chunked: read %s: %w", path, err)
	}
	onDisk, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0, fmt.Errorf("chunked: parse %s: %w", path, err)
	}
	return onDisk == CurrentFormatVersion, onDisk, nil
}
