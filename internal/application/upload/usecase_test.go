package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/pos-api/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	failKey  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if s.failKey != "" && bytes.Contains(data, []byte(s.failKey)) {
		return "", errors.New("oss caído")
	}
	s.mu.Lock()
	s.objects[key] = data
	s.types[key] = contentType
	s.mu.Unlock()
	return "https://cdn.test/" + key, nil
}

type seqKeys struct{ n atomic.Int64 }

func (k *seqKeys) Next(ext string) string {
	return fmt.Sprintf("images/%03d.%s", k.n.Add(1), ext)
}

func memFile(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func pngFile(name string) File {
	return memFile(name, append(append([]byte{}, pngHeader...), []byte(name)...))
}

func TestUpload_GuardaContenidoCompleto(t *testing.T) {
	store := newFakeStore()
	uc := NewUseCase(store, &seqKeys{})

	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte("x"), 2048)...)
	url, err := uc.Upload(context.Background(), memFile("foto.png", data))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/images/001.png", url)
	assert.Equal(t, data, store.objects["images/001.png"])
	assert.Equal(t, "image/png", store.types["images/001.png"])
}

func TestUpload_ExtensionSegunContenido(t *testing.T) {
	store := newFakeStore()
	uc := NewUseCase(store, &seqKeys{})

	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	url, err := uc.Upload(context.Background(), memFile("foto.png", jpeg))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/images/001.jpg", url)
}

func TestUpload_Rechazos(t *testing.T) {
	uc := NewUseCase(newFakeStore(), &seqKeys{})
	ctx := context.Background()

	tests := []struct {
		name string
		file File
	}{
		{"texto", memFile("notas.txt", []byte("hola mundo"))},
		{"pdf", memFile("doc.png", []byte("%PDF-1.4 ..."))},
		{"vacío", memFile("vacio.png", nil)},
		{"grande", File{Name: "big.png", Size: MaxFileSize + 1, Open: func() (io.ReadCloser, error) {
			t.Fatal("no debe abrirse")
			return nil, nil
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Upload(ctx, tt.file)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUploadMany_ConservaOrdenYLimitaConcurrencia(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newFakeStore()
	store.delay = 20 * time.Millisecond
	uc := NewUseCase(store, &seqKeys{})

	files := make([]File, MaxFiles)
	for i := range files {
		files[i] = pngFile(fmt.Sprintf("f%02d", i))
	}
	urls, err := uc.UploadMany(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, urls, MaxFiles)

	for i, u := range urls {
		key := u[len("https://cdn.test/"):]
		assert.Contains(t, string(store.objects[key]), fmt.Sprintf("f%02d", i))
	}
	assert.LessOrEqual(t, store.peak.Load(), int32(parallelism))
	assert.Greater(t, store.peak.Load(), int32(1))
}

func TestUploadMany_Limites(t *testing.T) {
	uc := NewUseCase(newFakeStore(), &seqKeys{})
	ctx := context.Background()

	_, err := uc.UploadMany(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	files := make([]File, MaxFiles+1)
	for i := range files {
		files[i] = pngFile("f")
	}
	_, err = uc.UploadMany(ctx, files)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UploadMany(ctx, []File{pngFile("a"), memFile("b.txt", []byte("texto plano"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUploadMany_FallaDelStorage(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newFakeStore()
	store.failKey = "roto"
	uc := NewUseCase(store, &seqKeys{})

	_, err := uc.UploadMany(context.Background(), []File{pngFile("ok1"), pngFile("roto"), pngFile("ok2")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roto")
}
