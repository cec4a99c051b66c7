// Package books defines the normalized book model returned by every
// provider client, the closed error taxonomy those clients classify
// failures into, and the client contract they implement.
package books

// Book is the normalized result of a provider lookup.
//
// PageCount is 0 and Description is "" when the provider did not supply
// them; both are valid values, not errors. ProviderLink points at the
// record on the provider's own site and is always filled in by the
// provider client, never by the caller.
type Book struct {
	PageCount    uint32  `json:"page_count"`
	Description  string  `json:"description"`
	ProviderLink string  `json:"provider_link"`
	Rating       *Rating `json:"rating,omitempty"`
}

// Rating holds the average score and the number of ratings behind it.
type Rating struct {
	AverageRating float32 `json:"average_rating"`
	RatingsCount  uint32  `json:"ratings_count"`
}

// NewRating builds a Rating from provider fields that may be absent.
// It returns nil when either value is missing from the payload, or when
// both report zero, which providers use to mean "no rating data yet".
// A zero-filled placeholder Rating is never created.
func NewRating(average *float32, count *uint32) *Rating {
	if average == nil || count == nil {
		return nil
	}
	if *average == 0 && *count == 0 {
		return nil
	}
	return &Rating{AverageRating: *average, RatingsCount: *count}
}
