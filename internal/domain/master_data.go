package domain

// Equipment is a machine installed on a production line.
type Equipment struct {
	Line string `json:"line" yaml:"line"`
	Name string `json:"name" yaml:"name"`
	Code string `json:"code" yaml:"code"`
}

// Part is a spare part that can be cited in a completion report.
type Part struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
}

// MasterData is the read-only catalog the worker wizard picks from.
type MasterData struct {
	Lines             []string    `json:"lines" yaml:"lines"`
	Equipment         []Equipment `json:"equipment" yaml:"equipment"`
	Symptoms          []string    `json:"symptoms" yaml:"symptoms"`
	SymptomCategories []string    `json:"symptom_categories" yaml:"symptom_categories"`
	Parts             []Part      `json:"parts" yaml:"parts"`
}
