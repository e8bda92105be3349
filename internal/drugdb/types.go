package drugdb

// SearchResult is one drug-name match from the RxTerms search service.
type SearchResult struct {
	Name  string `json:"name"`
	RxCUI string `json:"rxcui,omitempty"`
}

// LabelDetails holds the consumer-relevant sections of an FDA drug label.
type LabelDetails struct {
	BrandName   string `json:"brand_name"`
	Indications string `json:"indications"`
	Warnings    string `json:"warnings"`
	Reactions   string `json:"reactions"`
}
