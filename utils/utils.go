package utils

import (
	"mime/multipart"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// --- ID Generation ---

func GetUUID() string {
	return uuid.New().String()
}

// --- Customer Info Validation ---

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var phoneRe = regexp.MustCompile(`^\d{10}$`)

// ValidEmail checks the standard local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone requires exactly 10 digits.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

// --- Image Validation ---

var SupportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

func ValidateImageFileType(w http.ResponseWriter, header *multipart.FileHeader) bool {
	mimeType := header.Header.Get("Content-Type")
	if !SupportedImageTypes[mimeType] {
		http.Error(w, "Invalid file type. Supported formats: JPEG, PNG, WebP, GIF, BMP, TIFF.", http.StatusBadRequest)
		return false
	}
	return true
}
