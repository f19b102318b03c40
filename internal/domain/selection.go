package domain

// SelectionKey is the storage key of the breed chosen on the index page.
const SelectionKey = "breed"

// SelectionRecord is handed from the index flow to the pictures flow.
type SelectionRecord struct {
	Breed BreedName `json:"breed"`
}

// Gallery is what the pictures page renders.
type Gallery struct {
	Breed  BreedName `json:"breed"`
	Title  string    `json:"title"`
	Images ImageList `json:"images"`
}
