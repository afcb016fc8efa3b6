package models

// CatalogEntry is one legal value of a dynamic-catalog step, sourced
// from the external catalog collaborator. Read-only to this service.
type CatalogEntry struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
	Slug string `json:"slug" toml:"slug"`
}

// CatalogSnapshot is a point-in-time list of catalog entries for one
// dynamic-catalog step. Supplied per request; never cached by the
// resolver or the pipeline.
type CatalogSnapshot struct {
	Step    string         `json:"step"`
	Entries []CatalogEntry `json:"entries"`
}
