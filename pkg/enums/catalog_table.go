package enums

import "fmt"

// CatalogTable names a base catalog table that change notifications refer to.
type CatalogTable string

const (
	CatalogTableServices   CatalogTable = "services"
	CatalogTableCategories CatalogTable = "categories"
	CatalogTableItems      CatalogTable = "items"
)

var validCatalogTables = []CatalogTable{
	CatalogTableServices,
	CatalogTableCategories,
	CatalogTableItems,
}

// String implements fmt.Stringer.
func (c CatalogTable) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CatalogTable.
func (c CatalogTable) IsValid() bool {
	for _, candidate := range validCatalogTables {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCatalogTable converts raw input into a CatalogTable.
func ParseCatalogTable(value string) (CatalogTable, error) {
	for _, candidate := range validCatalogTables {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid catalog table %q", value)
}
