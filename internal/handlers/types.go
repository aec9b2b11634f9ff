package handlers

import "mime/multipart"

// ShortenRequest carries the target URL as a plain text body.
type ShortenRequest struct {
	RawBody []byte `contentType:"text/plain" doc:"The URL to shorten, with or without scheme" example:"github.com"`
}

// UploadRequest is a multipart form with the fields name, expiration,
// custom_alias and file.
type UploadRequest struct {
	RawBody multipart.Form
}

// URLResponse returns the public URL of the created object.
type URLResponse struct {
	Body struct {
		URL string `doc:"Public URL of the object" example:"https://bin.example.com/x7" json:"url"`
	}
}

func newURLResponse(baseURL, key string) *URLResponse {
	resp := &URLResponse{}
	resp.Body.URL = baseURL + "/" + key

	return resp
}
