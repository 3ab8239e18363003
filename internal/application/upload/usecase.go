// Package upload valida imágenes y las sube al almacenamiento de objetos.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sourcegraph/conc/pool"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Límites de subida.
const (
	MaxFileSize = 10 << 20 // 10 MB por archivo
	MaxFiles    = 10
	parallelism = 4
	sniffLen    = 512
)

// extensiones por tipo MIME detectado; cualquier otro tipo se rechaza.
var imageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
}

// ObjectStore destino de los archivos; devuelve la URL pública.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// KeyMaker genera claves únicas de objeto.
type KeyMaker interface {
	Next(ext string) string
}

// File archivo recibido; Open se llama una sola vez.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UseCase subida de imágenes.
type UseCase struct {
	store ObjectStore
	keys  KeyMaker
}

// NewUseCase construye el caso de uso.
func NewUseCase(store ObjectStore, keys KeyMaker) *UseCase {
	return &UseCase{store: store, keys: keys}
}

// Upload valida y sube una imagen.
func (uc *UseCase) Upload(ctx context.Context, f File) (string, error) {
	if err := checkSize(f); err != nil {
		return "", err
	}
	return uc.put(ctx, f)
}

// UploadMany sube hasta MaxFiles imágenes, cuatro a la vez. Las URLs respetan el orden recibido.
// Si una falla se cancelan las pendientes y se devuelve el primer error.
func (uc *UseCase) UploadMany(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no se recibieron archivos", domain.ErrInvalidInput)
	}
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("%w: máximo %d archivos por solicitud", domain.ErrInvalidInput, MaxFiles)
	}
	for _, f := range files {
		if err := checkSize(f); err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(files))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(parallelism).WithCancelOnError().WithFirstError()
	for i, f := range files {
		i, f := i, f
		p.Go(func(ctx context.Context) error {
			url, err := uc.put(ctx, f)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

func checkSize(f File) error {
	if f.Size <= 0 {
		return fmt.Errorf("%w: %s está vacío", domain.ErrInvalidInput, f.Name)
	}
	if f.Size > MaxFileSize {
		return fmt.Errorf("%w: %s supera %d MB", domain.ErrInvalidInput, f.Name, MaxFileSize>>20)
	}
	return nil
}

// put detecta el tipo por contenido (no por extensión) y sube el archivo completo.
func (uc *UseCase) put(ctx context.Context, f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("abrir %s: %w", f.Name, err)
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("leer %s: %w", f.Name, err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	ext, ok := imageTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s no es una imagen (%s)", domain.ErrInvalidInput, f.Name, contentType)
	}

	body := io.MultiReader(bytes.NewReader(head), rc)
	url, err := uc.store.Put(ctx, uc.keys.Next(ext), body, contentType)
	if err != nil {
		return "", fmt.Errorf("subir %s: %w", f.Name, err)
	}
	return url, nil
}
