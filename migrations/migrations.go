// Package migrations expone los scripts SQL del esquema, embebidos en el binario.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var files embed.FS

// Script un archivo de migración con su nombre (que define el orden) y contenido.
type Script struct {
	Name string
	SQL  string
}

// All devuelve los scripts ordenados por nombre.
func All() ([]Script, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Script, 0, len(names))
	for _, n := range names {
		b, err := files.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Script{Name: n, SQL: string(b)})
	}
	return out, nil
}
