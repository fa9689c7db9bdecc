package response

type UploadImage struct {
	ImageID string `json:"image_id"`
}

type GetImage struct {
	URL string `json:"url"`
}

type Error struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Errors      []Error `json:"errors,omitempty"`
}
