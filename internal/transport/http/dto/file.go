package dto

type UploadResponse struct {
	Detail  string `json:"detail"`
	FileURL string `json:"file_url"`
}
