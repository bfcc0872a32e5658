package renderer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// MessageExt is the extension of written message files.
const MessageExt = ".txt"

//nolint:gochecknoglobals // Compiled once, read-only
var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

// BuildFilename names the message file for the posting at index (zero based).
// The role is reduced to lowercase letters and digits joined by dashes.
func BuildFilename(role string, index int) (name string) {
	slug := unsafeChars.ReplaceAllString(strings.ToLower(role), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "posting"
	}

	name = fmt.Sprintf("%02d-%s%s", index+1, slug, MessageExt)
	return name
}

// WriteMessage writes a final message to a file, creating parent directories.
func WriteMessage(content, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	// Messages end with a newline on disk
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write message file: %s", outputPath)
		return err
	}

	return err
}

// WriteJSON writes v as indented JSON to outputPath.
func WriteJSON(v any, outputPath string) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal JSON")
		return err
	}

	err = WriteMessage(string(data), outputPath)
	return err
}

// Cleanup removes previously written message files.
func Cleanup(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove message file: %s", path)
			return err
		}
	}
	return err
}
