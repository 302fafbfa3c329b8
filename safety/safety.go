// ABOUTME: Guards against overwriting or clobbering source databases when
// ABOUTME: a pipeline writes its output path

package safety

import (
	"fmt"
	"path/filepath"
	"strings"
)

// dangerousPatterns are filename substrings that identify known source
// databases; an output path matching one of these (without also containing
// the caller's required pattern) is almost certainly a source path typo'd
// into the output position.
var dangerousPatterns = []string{"spotify_clean.sqlite3", "lrclib-db-dump", "audio_features"}

// ValidateOutputPath checks that output is safe to create or overwrite:
// its filename must contain requiredPattern, and it must not equal (or
// look like) any of sourcePaths.
func ValidateOutputPath(output string, requiredPattern string, sourcePaths []string) error {
	outputName := filepath.Base(output)

	if !strings.Contains(outputName, requiredPattern) {
		return fmt.Errorf("safety check failed: output file %q must contain %q in the name", output, requiredPattern)
	}

	for _, source := range sourcePaths {
		if output == source {
			return fmt.Errorf("safety check failed: output %q cannot be the same as source %q", output, source)
		}
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(outputName, pattern) && !strings.Contains(outputName, requiredPattern) {
			return fmt.Errorf("safety check failed: output %q matches source database pattern %q", output, pattern)
		}
	}

	return nil
}
