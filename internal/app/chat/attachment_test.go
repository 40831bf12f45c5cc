package chat

import (
	"testing"

	"shutterchat/internal/pkg/errs"
)

func TestValidateFileType(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mimeType string
		wantErr  bool
	}{
		{"jpeg", "photo.jpg", "image/jpeg", false},
		{"jpeg alt extension", "photo.jpeg", "image/jpeg", false},
		{"png", "photo.png", "image/png", false},
		{"mime case-insensitive", "photo.png", "IMAGE/PNG", false},
		{"mime not allowed", "doc.pdf", "application/pdf", true},
		{"extension mismatch", "photo.png", "image/jpeg", true},
		{"no extension", "photo", "image/jpeg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileType(tt.fileName, tt.mimeType)
			if tt.wantErr && err == nil {
				t.Error("ValidateFileType() succeeded, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateFileType() failed: %v", err)
			}
		})
	}
}

func TestValidateFileSize(t *testing.T) {
	if err := ValidateFileSize(1024); err != nil {
		t.Errorf("ValidateFileSize(1024) failed: %v", err)
	}
	if err := ValidateFileSize(MaxAttachmentSize); err != nil {
		t.Errorf("ValidateFileSize(max) failed: %v", err)
	}
	if err := ValidateFileSize(MaxAttachmentSize + 1); err == nil {
		t.Error("ValidateFileSize(max+1) succeeded, want error")
	}
	if err := ValidateFileSize(0); err == nil {
		t.Error("ValidateFileSize(0) succeeded, want error")
	}
}

func TestValidateAttachments(t *testing.T) {
	valid := Attachment{
		Key:      "attachments/abc.jpg",
		Name:     "abc.jpg",
		MimeType: "image/jpeg",
		Size:     2048,
	}

	if err := ValidateAttachments(nil); err != nil {
		t.Errorf("ValidateAttachments(nil) failed: %v", err)
	}

	if err := ValidateAttachments([]Attachment{valid, valid, valid}); err != nil {
		t.Errorf("ValidateAttachments(3 valid) failed: %v", err)
	}

	four := []Attachment{valid, valid, valid, valid}
	if err := ValidateAttachments(four); err == nil || err.Code != errs.ErrAttachmentCountInvalid {
		t.Errorf("ValidateAttachments(4) = %v, want AttachmentCountInvalid", err)
	}

	badKey := valid
	badKey.Key = "other/abc.jpg"
	if err := ValidateAttachments([]Attachment{badKey}); err == nil || err.Code != errs.ErrAttachmentKeyInvalid {
		t.Errorf("ValidateAttachments(bad key) = %v, want AttachmentKeyInvalid", err)
	}

	badType := valid
	badType.MimeType = "video/mp4"
	if err := ValidateAttachments([]Attachment{badType}); err == nil || err.Code != errs.ErrAttachmentTypeInvalid {
		t.Errorf("ValidateAttachments(bad type) = %v, want AttachmentTypeInvalid", err)
	}
}
