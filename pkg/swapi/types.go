package swapi

// PlanetPage is the envelope returned by the planet search endpoint.
type PlanetPage struct {
	Count   int      `json:"count"`
	Next    *string  `json:"next"`
	Results []Planet `json:"results"`
}

// Planet is a catalog planet record. Residents holds opaque person
// references in catalog order; it is nil when the record has no
// "residents" field at all and empty when the list is empty.
type Planet struct {
	Name      string   `json:"name"`
	Residents []string `json:"residents"`
	URL       string   `json:"url"`
}

// Person is a catalog person record.
type Person struct {
	Name      string `json:"name"`
	BirthYear string `json:"birth_year"`
	URL       string `json:"url"`
}
