package dto

// UploadResponse resultado de subir una imagen.
type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// MultiUploadResponse resultado de subir varias imágenes (mismo orden del formulario).
type MultiUploadResponse struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}
