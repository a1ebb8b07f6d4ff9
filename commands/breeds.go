package commands

import (
	"context"
	"fmt"

	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

// BreedRequest represents the parameters for a breed lookup
type BreedRequest struct {
	ID int `json:"id"`
}

type BreedSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BreedGroup string `json:"breed_group,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// ListBreedsCommand lists every breed in the catalog
func ListBreedsCommand(ctx context.Context) *CommandResponse {
	a, err := requireApp()
	if err != nil {
		return NewErrorResponse(err)
	}

	client, err := a.CatalogClient()
	if err != nil {
		return NewErrorResponse(err)
	}

	breeds, err := client.ListBreeds(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("error listing breeds: %w", err))
	}

	summaries := make([]BreedSummary, 0, len(breeds))
	for _, b := range breeds {
		summaries = append(summaries, BreedSummary{
			ID:         b.ID,
			Name:       b.Name,
			BreedGroup: b.BreedGroup,
			ImageURL:   b.ImageURL(),
		})
	}

	return NewSuccessResponse(map[string]interface{}{
		"breeds": summaries,
		"total":  len(summaries),
	})
}

// GetBreedCommand fetches the full details of one breed
func GetBreedCommand(ctx context.Context, req BreedRequest) *CommandResponse {
	breed, err := GetBreed(ctx, req.ID)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(breed)
}

// GetBreed is GetBreedCommand without the response envelope, for callers that
// render the breed themselves.
func GetBreed(ctx context.Context, id int) (*types.Breed, error) {
	if id <= 0 {
		return nil, fmt.Errorf("breed id must be positive, got %d", id)
	}

	a, err := requireApp()
	if err != nil {
		return nil, err
	}

	client, err := a.CatalogClient()
	if err != nil {
		return nil, err
	}

	breed, err := client.GetBreed(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching breed %d: %w", id, err)
	}

	// single-breed lookups carry only the reference image id
	if breed.Image == nil && breed.ReferenceImageID != "" {
		image, err := client.GetImage(ctx, breed.ReferenceImageID)
		if err != nil {
			utils.Verbose("Could not fetch image %s for %s: %v", breed.ReferenceImageID, breed.Name, err)
		} else {
			breed.Image = image
		}
	}
	return breed, nil
}
