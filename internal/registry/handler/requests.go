package handler

// resolveRequest is the JSON body for POST /registry/resolve.
type resolveRequest struct {
	FundName       string `json:"fund_name"`
	GeneralPartner string `json:"general_partner,omitempty"`
	VintageYear    int    `json:"vintage_year,omitempty"`
	SourceID       string `json:"source_id,omitempty"`
}

// resolveResponse reports the resolution outcome. Scores and signals are
// present only for fuzzy matches.
type resolveResponse struct {
	FundID         string   `json:"fund_id"`
	MatchType      string   `json:"match_type"`
	TokenSortScore float64  `json:"token_sort_score,omitempty"`
	StandardScore  float64  `json:"standard_score,omitempty"`
	Signals        []string `json:"signals,omitempty"`
}

// removeAliasRequest is the JSON body for DELETE /registry/aliases.
type removeAliasRequest struct {
	AliasText string `json:"alias_text"`
	SourceID  string `json:"source_id,omitempty"`
}
