package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/eightbin/internal/ratelimit"
)

// multipartOverhead is allowed on top of the file limit for form fields and boundaries.
const multipartOverhead = 64 << 10

// RegisterRoutes registers the shorten and upload operations. uploadLimits
// replace the write scope limits for uploads when non-empty.
func RegisterRoutes(api huma.API, links *LinkHandler, files *FileHandler, uploadLimits []ratelimit.LimitConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "shorten",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Shorten a URL",
		Description: "Writes a redirect object at a fresh short key and returns its public URL.",
		Tags:        []string{"Links"},
		RequestBody: &huma.RequestBody{
			Required: false,
			Content: map[string]*huma.MediaType{
				"text/plain": {Schema: &huma.Schema{Type: huma.TypeString}},
			},
		},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		},
	}, links.Shorten)

	uploadConfig := ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite}
	if len(uploadLimits) > 0 {
		uploadConfig = ratelimit.EndpointConfig{Limits: uploadLimits}
	}

	huma.Register(api, huma.Operation{
		OperationID:  "upload",
		Method:       http.MethodPost,
		Path:         "/upload",
		Summary:      "Upload a file",
		Description:  "Stores a file under f/ with its alias or a generated name and returns its public URL.",
		Tags:         []string{"Files"},
		MaxBodyBytes: files.MaxBytes() + multipartOverhead,
		Metadata: map[string]any{
			ratelimit.MetadataKey: uploadConfig,
		},
	}, files.Upload)
}
