package simulator

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrorEntry rechazo simulado (código, mensaje) al estilo de la DIAN.
type ErrorEntry struct {
	Code    string `yaml:"code" json:"code"`
	Message string `yaml:"message" json:"message"`
}

// Catalogs catálogos de rechazo por operación.
type Catalogs struct {
	DIAN         []ErrorEntry `yaml:"dian"`
	Structural   []ErrorEntry `yaml:"structural"`
	Registration []ErrorEntry `yaml:"registration"`
	Resolution   []ErrorEntry `yaml:"resolution"`
	Test         []ErrorEntry `yaml:"test"`
}

//go:embed catalogs.yaml
var catalogsYAML []byte

var defaultCatalogs = mustParseCatalogs(catalogsYAML)

// ParseCatalogs decodifica catálogos en YAML y exige que ninguno esté vacío.
func ParseCatalogs(data []byte) (*Catalogs, error) {
	var c Catalogs
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("simulator: parsear catálogos: %w", err)
	}
	for name, list := range map[string][]ErrorEntry{
		"dian": c.DIAN, "structural": c.Structural, "registration": c.Registration,
		"resolution": c.Resolution, "test": c.Test,
	} {
		if len(list) == 0 {
			return nil, fmt.Errorf("simulator: catálogo %q vacío", name)
		}
	}
	return &c, nil
}

func mustParseCatalogs(data []byte) *Catalogs {
	c, err := ParseCatalogs(data)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalogs devuelve una copia de los catálogos embebidos.
func DefaultCatalogs() Catalogs {
	c := *defaultCatalogs
	c.DIAN = append([]ErrorEntry(nil), c.DIAN...)
	c.Structural = append([]ErrorEntry(nil), c.Structural...)
	c.Registration = append([]ErrorEntry(nil), c.Registration...)
	c.Resolution = append([]ErrorEntry(nil), c.Resolution...)
	c.Test = append([]ErrorEntry(nil), c.Test...)
	return c
}

// pickErrors toma 1 o 2 entradas del catálogo sin reemplazo.
func pickErrors(r RandomSource, catalog []ErrorEntry) []ErrorEntry {
	pool := append([]ErrorEntry(nil), catalog...)
	count := 1 + r.IntN(2)
	if count > len(pool) {
		count = len(pool)
	}
	out := make([]ErrorEntry, 0, count)
	for i := 0; i < count; i++ {
		idx := r.IntN(len(pool))
		out = append(out, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}
