package storage

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestKeyGenerator_Formato(t *testing.T) {
	g, err := NewKeyGenerator(1, "/products/")
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC) }

	key := g.Next("png")
	assert.Regexp(t, regexp.MustCompile(`^products/2025/05/14/\d+\.png$`), key)
}

func TestKeyGenerator_FolderPorDefecto(t *testing.T) {
	g, err := NewKeyGenerator(1, "")
	require.NoError(t, err)
	assert.Contains(t, g.Next("jpg"), "uploads/")
}

func TestKeyGenerator_NodoInvalido(t *testing.T) {
	_, err := NewKeyGenerator(5000, "x")
	assert.Error(t, err)
}

func TestKeyGenerator_ClavesUnicasConcurrentes(t *testing.T) {
	g, err := NewKeyGenerator(2, "img")
	require.NoError(t, err)

	const n = 200
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		keys = make(map[string]struct{}, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := g.Next("webp")
			mu.Lock()
			keys[k] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, keys, n)
}

func TestOSSStorage_URL(t *testing.T) {
	s := NewOSSStorage(config.OSSConfig{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Region: "cn-hangzhou", Bucket: "pos", PublicURL: "https://cdn.pos.test/"})
	assert.Equal(t, "https://cdn.pos.test/img/a.png", s.URL("/img/a.png"))

	s = NewOSSStorage(config.OSSConfig{Endpoint: "oss-cn-hangzhou.aliyuncs.com", Region: "cn-hangzhou", Bucket: "pos"})
	assert.Equal(t, "https://pos.oss-cn-hangzhou.aliyuncs.com/img/a.png", s.URL("img/a.png"))
}
