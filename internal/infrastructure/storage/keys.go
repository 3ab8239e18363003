package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// KeyGenerator arma claves de objeto {folder}/AAAA/MM/DD/{snowflake}.{ext}.
type KeyGenerator struct {
	node   *snowflake.Node
	folder string
	now    func() time.Time
}

// NewKeyGenerator crea el generador para un nodo snowflake (0..1023).
func NewKeyGenerator(nodeID int64, folder string) (*KeyGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node: %w", err)
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	return &KeyGenerator{node: node, folder: folder, now: time.Now}, nil
}

// Next devuelve una clave única con la extensión dada (sin punto).
func (g *KeyGenerator) Next(ext string) string {
	return fmt.Sprintf("%s/%s/%d.%s", g.folder, g.now().Format("2006/01/02"), g.node.Generate().Int64(), ext)
}
