package catalog

// Seed is a nutrient the DRI tables key on but the food-composition catalog
// has no name for. Seeds are applied before reconciliation.
type Seed struct {
	Position int
	Name     string
	UnitCode int
}

// FattyAcidSeeds are the fatty acid subtotals, all in grams.
var FattyAcidSeeds = []Seed{
	{Position: 90, Name: "saturated fatty acids total", UnitCode: 1},
	{Position: 117, Name: "monounsaturated fatty acids total", UnitCode: 1},
	{Position: 118, Name: "polyunsaturated fatty acids total", UnitCode: 1},
}

// Override pins a DRI nutrient name to a catalog position where substring
// matching picks the wrong entry. The list is curated by hand.
type Override struct {
	Name     string
	Position int
}

// Overrides must not be regenerated by smarter matching.
var Overrides = []Override{
	{Name: "fat", Position: 1},
	{Name: "vitamin d", Position: 40},
	{Name: "vitamin a", Position: 33},
	{Name: "protein", Position: 0},
	{Name: "vitamin b-12", Position: 58},
	{Name: "vitamin e", Position: 36},
	{Name: "folate", Position: 57},
}
