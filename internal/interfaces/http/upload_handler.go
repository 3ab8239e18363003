package http

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/upload"
)

// UploadHandler subida de imágenes al almacenamiento de objetos.
type UploadHandler struct {
	uc *upload.UseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *upload.UseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

func toFile(fh *multipart.FileHeader) upload.File {
	return upload.File{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// Upload godoc
// @Summary      Subir una imagen
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen (máx. 10 MB)"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo file requerido"})
	}
	url, err := h.uc.Upload(c.UserContext(), toFile(fh))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{Message: "imagen subida", URL: url})
}

// UploadMultiple godoc
// @Summary      Subir varias imágenes
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        files  formData  file  true  "Imágenes (máx. 10)"
// @Success      201    {object}  dto.MultiUploadResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/upload/multiple [post]
func (h *UploadHandler) UploadMultiple(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formulario multipart requerido"})
	}
	headers := form.File["files"]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, toFile(fh))
	}
	urls, err := h.uc.UploadMany(c.UserContext(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MultiUploadResponse{Message: "imágenes subidas", URLs: urls})
}
