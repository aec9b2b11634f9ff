package filebin

import "strings"

// DefaultContentType is served for extensions outside the table.
const DefaultContentType = "text/plain"

// contentTypes lists the file types browsers should render inline.
var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"txt":  "text/plain",
	"pdf":  "application/pdf",
}

// ContentType returns the content type for an extension without the dot.
func ContentType(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}

	return DefaultContentType
}

// Extension returns the text after the last dot of filename, or "" when there is none.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 {
		return ""
	}

	return filename[idx+1:]
}
