package models

// UploadState names one state of the media upload pipeline.
type UploadState string

const (
	UploadIdle         UploadState = "idle"
	UploadValidating   UploadState = "validating"
	UploadFileSelected UploadState = "file_selected"
	UploadUploading    UploadState = "uploading"
	UploadSucceeded    UploadState = "succeeded"
	UploadFailed       UploadState = "failed"
)

// Terminal reports whether no further automatic transition can occur.
func (s UploadState) Terminal() bool {
	return s == UploadSucceeded || s == UploadFailed
}

// FailureCause separates remote rejections from transport-level failures so
// the presentation layer can suggest the right remediation.
type FailureCause string

const (
	FailureNone     FailureCause = ""
	FailureRejected FailureCause = "remote_rejected"
	FailureNetwork  FailureCause = "network"
)

// UploadFile describes the selected local file.
type UploadFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// UploadResult is the terminal outcome of one upload session.
type UploadResult struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	MediaURL     string       `json:"mediaUrl,omitempty"`
	OriginalName string       `json:"originalName,omitempty"`
	Size         int64        `json:"size,omitempty"`
	Cause        FailureCause `json:"cause,omitempty"`
}

// UploadSession is a read-only snapshot of the pipeline exposed to the
// presentation layer.
type UploadSession struct {
	State    UploadState   `json:"state"`
	File     *UploadFile   `json:"file,omitempty"`
	Progress int           `json:"progress"`
	Result   *UploadResult `json:"result,omitempty"`
}
