package seedfile

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dwikikusuma/shoping-cart/internal/inventory/domain"
)

//go:embed db.json
var defaultSeed []byte

// Loader reads the seed document from Path, or the bundled one when Path is
// empty.
type Loader struct {
	Path string
}

func (l Loader) LoadSeed(ctx context.Context) (domain.Seed, error) {
	raw := defaultSeed
	if l.Path != "" {
		b, err := os.ReadFile(l.Path)
		if err != nil {
			return domain.Seed{}, fmt.Errorf("read seed %s: %w", l.Path, err)
		}
		raw = b
	}

	var seed domain.Seed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return domain.Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}
