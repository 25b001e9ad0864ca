package port

// PageDecoder extracts per-page text from a paginated binary document.
// Pages come back in document order; a page without a text layer yields an
// empty string at its index. An empty slice means the document could not be
// decoded at all.
type PageDecoder interface {
	DecodePages(data []byte) ([]string, error)
}
