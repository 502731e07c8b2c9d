// Package validation holds request validation and input sanitizing.
package validation

import (
	"bytes"
	"errors"
	"html"
	"mime"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate *validator.Validate
	strict   = bluemonday.StrictPolicy()
	ugc      = bluemonday.UGCPolicy()

	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ImageTypes are the upload types accepted for section images.
var ImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})
}

// Struct runs the `validate` tags of s.
func Struct(s interface{}) error {
	return validate.Struct(s)
}

// FormatErrors flattens validator errors into field -> message pairs keyed
// by JSON name. Other errors come back under "_".
func FormatErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "slug":
		return "may contain only lowercase letters, digits and hyphens"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify lowercases s and replaces every run of other characters with a
// single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// SanitizeString strips all markup and returns plain text. The strict
// policy entity-encodes what it keeps, so the result is unescaped again;
// templates escape on output.
func SanitizeString(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// SanitizeHTML keeps safe formatting markup.
func SanitizeHTML(s string) string {
	return ugc.Sanitize(s)
}

// ContentTypeAllowed reports whether contentType, ignoring parameters, is one
// of allowed.
func ContentTypeAllowed(contentType string, allowed []string) bool {
	if contentType == "" {
		return false
	}
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	mimeType = strings.ToLower(mimeType)
	for _, a := range allowed {
		if mimeType == a {
			return true
		}
	}
	return false
}

// DetectImageType sniffs the raster image formats from magic numbers.
// SVG is text and is not detected.
func DetectImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF8")):
		return "image/gif"
	case len(data) > 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.HasPrefix(data[8:], []byte("WEBP")):
		return "image/webp"
	}
	return ""
}

// CheckImage validates the declared type of an upload against its content.
// Raster formats must match their magic number; SVG is accepted on the
// declared type alone.
func CheckImage(declared string, data []byte) (string, error) {
	if !ContentTypeAllowed(declared, ImageTypes) {
		return "", ErrUnsupportedType
	}
	mimeType, _, _ := mime.ParseMediaType(declared)
	mimeType = strings.ToLower(mimeType)
	if mimeType == "image/svg+xml" {
		return mimeType, nil
	}
	detected := DetectImageType(data)
	if detected == "" || detected != mimeType {
		return "", ErrContentMismatch
	}
	return detected, nil
}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrContentMismatch = errors.New("file content does not match its type")
)
