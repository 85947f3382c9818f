package dto

// MediaUploadResponse is the success body returned by the media-ingestion
// endpoint. It is surfaced verbatim as the terminal success outcome.
type MediaUploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	VideoURL     string `json:"videoUrl,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	Size         int64  `json:"size,omitempty"`
}

// MediaUploadError covers both failure shapes the media-ingestion endpoint
// produces: {"success":false,"message":...} and {"error":...}.
type MediaUploadError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Reason normalizes the two failure shapes into one message.
func (e MediaUploadError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
