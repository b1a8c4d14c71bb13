package model

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
)

// BomLine is one parsed row of the uploaded BOM.
type BomLine struct {
	PartName    string `json:"part_name"` // query key
	Description string `json:"description"`
	Package     string `json:"package"`
	Voltage     string `json:"voltage"`
	OtherSpecs  string `json:"other_specs"`
	Quantity    *int   `json:"quantity,omitempty"` // not used for matching
}

type Supplier struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
}

// SearchRule holds the supplier search URL template with a literal {query}.
type SearchRule struct {
	SearchURLTemplate *string `json:"search_url_template"`
}

// Candidate is a catalog part joined with its supplier (and rule, if any).
type Candidate struct {
	ID           uint
	SupplierID   uint
	PartNumber   string
	Name         *string
	Description  string
	Package      string
	Voltage      string
	OtherSpecs   string
	Stock        string
	PriceTiers   []byte // raw JSON list of {qty, price}
	DatasheetURL string
	PurchaseURL  string
	ImageURL     string

	Supplier Supplier
	Rule     *SearchRule
}

// NameOrEmpty returns the candidate name or "" when unset.
func (c Candidate) NameOrEmpty() string {
	if c.Name == nil {
		return ""
	}
	return *c.Name
}

type Options struct {
	SupplierScope []string `json:"suppliers"`      // empty = all suppliers
	InStockOnly   bool     `json:"in_stock_only"`  // stock predicate
	MinSimilarity float64  `json:"min_similarity"` // 0..100
	Workers       int      `json:"-"`              // <=1 = sequential
}

type MatchResult struct {
	Status            Status  `json:"status"`
	BomPartName       string  `json:"bom_part_name"`
	FoundPartName     *string `json:"found_part_name"`
	SupplierName      *string `json:"supplier_name"`
	Price             *string `json:"price"`
	Stock             *string `json:"stock"`
	ImageURL          *string `json:"image_url"`
	DatasheetURL      *string `json:"datasheet_url"`
	PurchaseLink      *string `json:"purchase_link"`
	SimilarityPercent float64 `json:"similarity_percent"`
}

type Suggestion struct {
	FoundPartName     string  `json:"found_part_name"`
	SupplierName      string  `json:"supplier_name"`
	Price             *string `json:"price"`
	Stock             string  `json:"stock"`
	ImageURL          string  `json:"image_url"`
	DatasheetURL      string  `json:"datasheet_url"`
	PurchaseLink      *string `json:"purchase_link"`
	SimilarityPercent float64 `json:"similarity_percent"`
}

type Result struct {
	Rows        []MatchResult        `json:"rows"`
	Suggestions map[int][]Suggestion `json:"suggestions"`
	Candidates  int                  `json:"candidates"` // pool size after filtering
	Opts        Options              `json:"opts"`
}
