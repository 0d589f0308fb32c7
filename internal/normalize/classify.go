package normalize

import "strings"

// Asset classes assigned by ClassifyStrategy.
const (
	AssetClassPrivateEquity = "Private Equity"
	AssetClassPrivateCredit = "Private Credit"
	AssetClassRealAssets    = "Real Assets"
)

// ClassifyStrategy assigns an asset class and sub-strategy from keywords in
// the fund name, most specific first. Names with no strategy keyword land in
// the default Private Equity bucket with an empty sub-strategy.
func ClassifyStrategy(fundName string) (assetClass, subStrategy string) {
	if fundName == "" {
		return AssetClassPrivateEquity, ""
	}

	name := strings.ToLower(fundName)
	containsAny := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("real estate", "realty", "property", "reit"):
		return AssetClassRealAssets, "Real Estate"
	case containsAny("infrastructure", "infra "):
		return AssetClassRealAssets, "Infrastructure"
	case containsAny("natural resource", "timber", "mining", "oil ", "gas "):
		return AssetClassRealAssets, "Natural Resources"
	case containsAny("energy"):
		return AssetClassPrivateEquity, "Energy"
	case containsAny("fund of funds", "pathway"):
		return AssetClassPrivateEquity, "Fund of Funds"
	case containsAny("secondar"):
		return AssetClassPrivateEquity, "Secondaries"
	case containsAny("co-invest", "coinvest", "co invest"):
		return AssetClassPrivateEquity, "Co-Investment"
	case containsAny("credit", "debt", "loan", "lending", "mezzanine", "mezz"):
		return AssetClassPrivateCredit, "Credit"
	case containsAny("distress", "special situation", "turnaround", "recovery", "rescue"):
		return AssetClassPrivateEquity, "Distressed/Special Situations"
	case containsAny("venture", "seed", "early stage", "early-stage"):
		return AssetClassPrivateEquity, "Venture Capital"
	case containsAny("growth"):
		return AssetClassPrivateEquity, "Growth Equity"
	case containsAny("buyout"):
		return AssetClassPrivateEquity, "Buyout"
	case containsAny("opportunit"):
		return AssetClassPrivateEquity, "Opportunistic"
	}

	return AssetClassPrivateEquity, ""
}
