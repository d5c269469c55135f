package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/convrt/rag-backend/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".csv": true,
}

// IsAllowedFile reports whether filename has a supported dataset extension.
func IsAllowedFile(filename string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ValidateUpload checks an uploaded dataset's name and size.
func (v *Validator) ValidateUpload(filename string, size int64) error {
	if filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}
	if !IsAllowedFile(filename) {
		return entity.ErrUnsupportedFormat
	}
	if v.cfg.MaxUploadSize > 0 && size > v.cfg.MaxUploadSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrFileTooLarge, filename, size, v.cfg.MaxUploadSize)
	}
	return nil
}

// SanitizeFilename strips directories and characters awkward in file names.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
