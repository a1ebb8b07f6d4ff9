package types

import "fmt"

// imageCDN is where The Dog API serves reference images.
const imageCDN = "https://cdn2.thedogapi.com/images"

// Measure holds a breed measurement in both unit systems, as ranges like "23 - 29".
type Measure struct {
	Imperial string `json:"imperial"`
	Metric   string `json:"metric"`
}

// Image is a breed picture as returned by the catalog.
type Image struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Breed is a single catalog entry.
type Breed struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	BredFor          string  `json:"bred_for,omitempty"`
	BreedGroup       string  `json:"breed_group,omitempty"`
	LifeSpan         string  `json:"life_span,omitempty"`
	Temperament      string  `json:"temperament,omitempty"`
	Weight           Measure `json:"weight"`
	Height           Measure `json:"height"`
	ReferenceImageID string  `json:"reference_image_id,omitempty"`
	Image            *Image  `json:"image,omitempty"`
}

// ImageID returns the identifier votes are cast against. The reference image
// wins over the embedded one; an empty string means the breed cannot be voted on.
func (b Breed) ImageID() string {
	if b.ReferenceImageID != "" {
		return b.ReferenceImageID
	}
	if b.Image != nil {
		return b.Image.ID
	}
	return ""
}

// ImageURL returns a displayable picture URL, or "" if the breed has none.
func (b Breed) ImageURL() string {
	if b.Image != nil && b.Image.URL != "" {
		return b.Image.URL
	}
	if b.ReferenceImageID != "" {
		return fmt.Sprintf("%s/%s.jpg", imageCDN, b.ReferenceImageID)
	}
	return ""
}
