package pagination

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncorrectDataReturned is returned when a successful fetch cannot be
// interpreted as a valid page result (missing total count or item list).
// It terminates the search session; no further pages are fetched.
var ErrIncorrectDataReturned = errors.New("incorrect data returned")

// Item is a single image search result.
type Item struct {
	ID         int    `json:"id"`
	Width      int    `json:"imageWidth"`
	Height     int    `json:"imageHeight"`
	PreviewURL string `json:"previewURL"`
	ImageURL   string `json:"largeImageURL"`
}

// PageResult is one decoded page of search results.
type PageResult struct {
	// Items in server order.
	Items []Item

	// TotalAvailable is the total result count reported by the server
	// for the whole query, not just this page.
	TotalAvailable int
}

// AccumulatedResponse is the running accumulation across all pages received
// so far in a session. Images is append-only in fetch order; TotalAvailable
// is the latest value reported by the server.
type AccumulatedResponse struct {
	TotalAvailable int    `json:"totalAvailable"`
	Images         []Item `json:"images"`
}

// pageEnvelope mirrors the Pixabay search response shape. Pointer fields
// distinguish absent keys from zero values during validation.
type pageEnvelope struct {
	TotalHits *int    `json:"totalHits"`
	Hits      *[]Item `json:"hits"`
}

// decodePage validates and decodes a raw response body into a PageResult.
// A body that is not valid JSON, or lacks the total count or item list,
// fails with ErrIncorrectDataReturned.
func decodePage(raw []byte) (*PageResult, error) {
	var envelope pageEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncorrectDataReturned, err)
	}

	if envelope.TotalHits == nil {
		return nil, fmt.Errorf("%w: missing total count", ErrIncorrectDataReturned)
	}
	if *envelope.TotalHits < 0 {
		return nil, fmt.Errorf("%w: negative total count %d", ErrIncorrectDataReturned, *envelope.TotalHits)
	}
	if envelope.Hits == nil {
		return nil, fmt.Errorf("%w: missing item list", ErrIncorrectDataReturned)
	}

	return &PageResult{
		Items:          *envelope.Hits,
		TotalAvailable: *envelope.TotalHits,
	}, nil
}
