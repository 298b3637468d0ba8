package analytics

// SynergyResult lists products commonly bought together with this one.
// Deliberately a static lookup table, not basket mining.
type SynergyResult struct {
	RelatedProducts      []string `json:"related_products"`
	CrossSellOpportunity string   `json:"cross_sell_opportunity"`
}

var synergies = map[string][]string{
	"Coffee Beans":  {"Fresh Milk", "Artisan Bread"},
	"Fresh Milk":    {"Cereal", "Coffee Beans"},
	"Artisan Bread": {"Organic Honey", "Free-range Eggs"},
	"Pasta":         {"Tomato Sauce", "Olive Oil"},
}

// AnalyzeSynergy looks the product up in the cross-sell table.
func AnalyzeSynergy(product string) SynergyResult {
	related := synergies[product]
	opp := "LOW"
	if len(related) > 0 {
		opp = "HIGH"
	}
	return SynergyResult{RelatedProducts: related, CrossSellOpportunity: opp}
}
