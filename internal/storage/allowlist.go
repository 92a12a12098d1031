package storage

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedTypes maps accepted extensions to the MIME types their content may carry.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".mp3":  {"audio/mpeg", "audio/mp3"},
	".wav":  {"audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave"},
	".mp4":  {"video/mp4"},
	".avi":  {"video/x-msvideo", "video/avi", "video/msvideo"},
	".mov":  {"video/quicktime"},
}

// Allowed checks the file name's extension against the allow-list and requires
// either the sniffed or the declared MIME type to belong to that extension.
// It returns the MIME type that matched.
func Allowed(filename string, detected *mimetype.MIME, declared string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return "", false
	}

	for m := detected; m != nil; m = m.Parent() {
		for _, candidate := range accepted {
			if m.Is(candidate) {
				return candidate, true
			}
		}
	}

	if declared != "" && mimetype.EqualsAny(declared, accepted...) {
		return strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0])), true
	}
	return "", false
}

// Kind maps a MIME type to the announcement attachment kind.
func Kind(mime string) string {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return "image"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	default:
		return "file"
	}
}
