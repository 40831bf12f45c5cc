package chat

import (
	"path/filepath"
	"strings"
	"time"

	"shutterchat/internal/pkg/errs"
)

const (
	// MaxAttachmentSizeMB is the maximum allowed photo size in megabytes.
	MaxAttachmentSizeMB = 5

	// MaxAttachmentSize is the maximum allowed photo size in bytes.
	MaxAttachmentSize = MaxAttachmentSizeMB * 1024 * 1024

	// MaxAttachmentsCount is the maximum number of attachments per message.
	MaxAttachmentsCount = 3

	// PresignedURLDuration is how long a presigned upload/download URL stays valid.
	PresignedURLDuration = 5 * time.Minute

	// AttachmentKeyPrefix is the object-store prefix all chat attachments live under.
	AttachmentKeyPrefix = "attachments/"
)

// AllowedMIMETypes defines the set of permitted MIME types for photo attachments.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Attachment is a validated reference to an uploaded photo.
type Attachment struct {
	Key      string `json:"fileKey"`
	Name     string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"fileSize"`
}

// ValidateFileSize checks that the declared file size is within limits.
func ValidateFileSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 || fileSize > MaxAttachmentSize {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// ValidateFileType checks that the file name extension and MIME type agree
// and are on the allowlist.
func ValidateFileType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrAttachmentTypeInvalid, mimeType)
	}

	ext := strings.ToLower(filepath.Ext(fileName))

	expectedMIME, ok := ExtToMIME[ext]
	if !ok {
		return errs.NewError(errs.ErrAttachmentTypeInvalid, ext)
	}

	if expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrAttachmentTypeInvalid, mimeType)
	}

	return nil
}

// ValidateAttachments checks count, key prefix, and file type for every
// attachment on a message submission.
func ValidateAttachments(attachments []Attachment) *errs.CustomError {
	if len(attachments) > MaxAttachmentsCount {
		return errs.NewError(errs.ErrAttachmentCountInvalid, MaxAttachmentsCount)
	}

	for _, a := range attachments {
		if !strings.HasPrefix(a.Key, AttachmentKeyPrefix) {
			return errs.NewError(errs.ErrAttachmentKeyInvalid)
		}

		if err := ValidateFileType(a.Name, a.MimeType); err != nil {
			return err
		}

		if err := ValidateFileSize(a.Size); err != nil {
			return err
		}
	}

	return nil
}
