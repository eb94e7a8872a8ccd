package dto

// UploadPhotoRequest carries an inline data-URI encoded image.
type UploadPhotoRequest struct {
	PhotoData string `json:"photoData" binding:"required"`
	FileName  string `json:"fileName" binding:"required"`
}

// UploadPhotoResponse returns the signed URL and the object path the photo
// was stored under. The URL is long-lived and saved verbatim on timesheet
// records.
type UploadPhotoResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}
