// Package domain defines the core types for the buyers database: entity
// records, taxonomy labels and the links between them.
package domain

// EntityID represents the persisted-store primary key of an entity row.
type EntityID int64

// Entity is one company record in the entities table. The core only ever
// mutates its tag links and intel fields; the descriptive columns are
// opaque display data.
type Entity struct {
	ID            EntityID `json:"id"`
	Entity        string   `json:"entity"`
	MiKey         int64    `json:"mi_key"`
	Ticker        string   `json:"ticker"`
	Website       *string  `json:"website,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Country       *string  `json:"country,omitempty"`
	City          *string  `json:"city,omitempty"`
	Industry      *string  `json:"industry,omitempty"`
	AllIndustries *string  `json:"all_industries,omitempty"`
	Intel         *string  `json:"intel,omitempty"`
	IntelDate     *string  `json:"intel_date,omitempty"`
}

// EntityRecord is the writable shape of an entity row: what the manual
// add form and the bulk importer hand to the store. The persisted store
// assigns the id; mi_key is the stable business key upserts conflict on.
type EntityRecord struct {
	Entity        string  `json:"entity"`
	MiKey         int64   `json:"mi_key"`
	Ticker        string  `json:"ticker"`
	Website       *string `json:"website,omitempty"`
	Description   *string `json:"description,omitempty"`
	Country       *string `json:"country,omitempty"`
	City          *string `json:"city,omitempty"`
	Industry      *string `json:"industry,omitempty"`
	AllIndustries *string `json:"all_industries,omitempty"`
}

// EntityView is one row of the entities_context view: an entity together
// with its aggregated tag lists and industry classifications, shaped for
// the browse grid.
type EntityView struct {
	ID          EntityID `json:"id"`
	Entity      string   `json:"entity"`
	MiKey       int64    `json:"mi_key"`
	Ticker      string   `json:"ticker"`
	Website     *string  `json:"website,omitempty"`
	Description *string  `json:"description,omitempty"`
	Country     *string  `json:"country,omitempty"`
	City        *string  `json:"city,omitempty"`
	Macros      []string `json:"macros"`
	Micros      []string `json:"micros"`
	Industry    []string `json:"ciq_industry,omitempty"`
	Industries  []string `json:"ciq_industry_category,omitempty"`
	Intel       *string  `json:"intel,omitempty"`
	IntelDate   *string  `json:"intel_date,omitempty"`
}
