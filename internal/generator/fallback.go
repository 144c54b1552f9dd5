package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"videogen-gateway/internal/models"
)

// Catalog is the fixed set of sample videos served in demo mode.
type Catalog struct {
	videos []models.FallbackVideo
}

// NewCatalog copies videos into a catalog. It must not be empty and every entry needs a URL.
func NewCatalog(videos []models.FallbackVideo) (*Catalog, error) {
	if len(videos) == 0 {
		return nil, errors.New("fallback catalog must not be empty")
	}
	for i, v := range videos {
		if v.URL == "" {
			return nil, fmt.Errorf("fallback video %d has an empty url", i)
		}
	}

	out := make([]models.FallbackVideo, len(videos))
	copy(out, videos)
	return &Catalog{videos: out}, nil
}

// Pick returns an entry chosen uniformly at random. Safe for concurrent use.
func (c *Catalog) Pick() models.FallbackVideo {
	return c.videos[rand.IntN(len(c.videos))]
}

// Videos returns a copy of the catalog entries.
func (c *Catalog) Videos() []models.FallbackVideo {
	out := make([]models.FallbackVideo, len(c.videos))
	copy(out, c.videos)
	return out
}
