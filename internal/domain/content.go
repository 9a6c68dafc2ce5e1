package domain

import "time"

// Content collections edited through the back-office as free-form documents.
const (
	CollectionBanners        = "banners"
	CollectionCartAds        = "cartAds"
	CollectionCandleProducts = "candleProducts"
	CollectionFooterData     = "footerData"
)

// IsContentCollection reports whether c is a collection the storefront serves.
func IsContentCollection(c string) bool {
	switch c {
	case CollectionBanners, CollectionCartAds, CollectionCandleProducts, CollectionFooterData:
		return true
	}
	return false
}

// ContentDocument is a flat JSON record stored under a collection.
type ContentDocument struct {
	Collection string                 `json:"-"`
	ID         string                 `json:"id"`
	Data       map[string]interface{} `json:"data"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}
