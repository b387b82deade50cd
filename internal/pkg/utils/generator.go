package utils

import (
	"fmt"
	"oncobilling-service/internal/pkg/constvars"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateAttachmentObjectName keeps the uploaded file extension and prefixes
// the object with the target's attachment folder.
func GenerateAttachmentObjectName(prefix, originalFileName string) string {
	extension := strings.ToLower(filepath.Ext(originalFileName))
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s%s_%s%s", prefix, timestamp, uuid.NewString(), extension)
}
