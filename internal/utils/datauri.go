package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURI decodes a base64 data URI ("data:image/png;base64,...") into
// its content type and raw bytes. Bare base64 payloads without the data URI
// prefix are accepted and default to image/jpeg.
func DecodeDataURI(input string) (contentType string, data []byte, err error) {
	contentType = "image/jpeg"
	payload := input

	if strings.HasPrefix(input, "data:") {
		meta, rest, found := strings.Cut(input[len("data:"):], ",")
		if !found {
			return "", nil, fmt.Errorf("malformed data uri: missing comma separator")
		}
		if ct, ok := strings.CutSuffix(meta, ";base64"); ok {
			if ct != "" {
				contentType = ct
			}
		} else {
			return "", nil, fmt.Errorf("malformed data uri: only base64 encoding is supported")
		}
		payload = rest
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty photo payload")
	}
	return contentType, data, nil
}

// ExtensionForContentType maps known image content types to file extensions.
func ExtensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
