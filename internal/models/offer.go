// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package models defines the data types shared between the dataset,
// feature, training, and persistence layers.
package models

// ShopOffer is a raw seller-supplied listing as stored in the offer
// cache. It is fetched on demand and never mutated by this service.
type ShopOffer struct {
	OfferKey              string              `json:"offerKey"`
	ShopID                int64               `json:"shopId"`
	Phase                 byte                `json:"phase"`
	Matched               bool                `json:"isMatched"`
	BrandName             string              `json:"brandName,omitempty"`
	CategoryPaths         []string            `json:"categoryPaths,omitempty"`
	ProductSearchtext     string              `json:"productSearchtext,omitempty"`
	EAN                   string              `json:"ean,omitempty"`
	HAN                   string              `json:"han,omitempty"`
	SKU                   string              `json:"sku,omitempty"`
	EANs                  []string            `json:"eans,omitempty"`
	HANs                  []string            `json:"hans,omitempty"`
	Titles                map[string]string   `json:"titles,omitempty"`
	Descriptions          map[string]string   `json:"descriptions,omitempty"`
	Prices                map[string]float64  `json:"prices,omitempty"`
	URLs                  map[string]string   `json:"urls,omitempty"`
	SmallPicture          map[string]string   `json:"smallPicture,omitempty"`
	ImageURLs             map[string][]string `json:"imageUrls,omitempty"`
	ProductKey            string              `json:"productKey,omitempty"`
	MappedCatalogCategory string              `json:"mappedCatalogCategory,omitempty"`
}

// FirstTitle returns an arbitrary title from the multilingual title
// map, or "" when no title is present. The upstream cache stores one
// entry per language and does not mark a primary one.
func (o *ShopOffer) FirstTitle() string {
	for _, title := range o.Titles {
		return title
	}
	return ""
}

// FirstPrice returns an arbitrary price from the price map and whether
// one was present.
func (o *ShopOffer) FirstPrice() (float64, bool) {
	for _, price := range o.Prices {
		return price, true
	}
	return 0, false
}

// ParsedOffer is the catalog side of a confirmed match: the offer's
// attributes as parsed and resolved during matching.
type ParsedOffer struct {
	Title     string `json:"title,omitempty"`
	BrandName string `json:"brandName,omitempty"`
	Category  string `json:"category,omitempty"`
	Price     string `json:"price,omitempty"`
	URL       string `json:"url,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// MatchingRecord is one confirmed pairing between a catalog entity and
// a shop offer. Records are immutable once fetched from the matches
// store.
type MatchingRecord struct {
	ShopID              int64       `json:"shopId"`
	OfferKey            string      `json:"offerKey"`
	MatchingReason      string      `json:"matchingReason"`
	Confidence          int         `json:"confidence"`
	Category            string      `json:"idealoCategory,omitempty"`
	CategoryName        string      `json:"idealoCategoryName,omitempty"`
	HigherLevelCategory string      `json:"higherLevelIdealoCategory,omitempty"`
	HigherLevelName     string      `json:"higherLevelIdealoCategoryName,omitempty"`
	Brand               string      `json:"idealoBrand,omitempty"`
	ParsedData          ParsedOffer `json:"parsedData"`
}

// MatchReasonExactIdentifier marks matches confirmed by a shared
// EAN/HAN/SKU; anything else is a heuristic match.
const MatchReasonExactIdentifier = "identifier"
