package catalog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dogfinder/dogfinder/types"
)

const breedsPageSize = 100

// ListBreeds fetches the first page of breeds, which covers the whole catalog.
func (c *Client) ListBreeds(ctx context.Context) ([]types.Breed, error) {
	var breeds []types.Breed
	endpoint := fmt.Sprintf("breeds?limit=%d&page=0", breedsPageSize)
	if err := c.get(ctx, "fetch breeds", endpoint, &breeds); err != nil {
		return nil, err
	}

	for _, b := range breeds {
		c.breeds.Add(b.ID, b)
	}
	return breeds, nil
}

// GetBreed returns a single breed, served from cache when it was seen before.
func (c *Client) GetBreed(ctx context.Context, id int) (*types.Breed, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid breed id %d", id)
	}

	if b, ok := c.breeds.Get(id); ok {
		return &b, nil
	}

	var breed types.Breed
	if err := c.get(ctx, "fetch breed", fmt.Sprintf("breeds/%d", id), &breed); err != nil {
		return nil, err
	}

	c.breeds.Add(breed.ID, breed)
	return &breed, nil
}

// GetImage fetches image metadata by id.
func (c *Client) GetImage(ctx context.Context, imageID string) (*types.Image, error) {
	if imageID == "" {
		return nil, fmt.Errorf("image id is required")
	}

	var image types.Image
	if err := c.get(ctx, "fetch image", "images/"+url.PathEscape(imageID), &image); err != nil {
		return nil, err
	}
	return &image, nil
}

// InvalidateBreeds drops cached breeds.
func (c *Client) InvalidateBreeds() {
	c.breeds.Purge()
}
