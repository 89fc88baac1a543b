package footballdata

type competitionsEnvelope struct {
	Competitions []competitionItem `json:"competitions"`
}

type competitionItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Area struct {
		Name string `json:"name"`
	} `json:"area"`
}

type matchesEnvelope struct {
	Competition competitionItem `json:"competition"`
	Filters     struct {
		Season string `json:"season"`
	} `json:"filters"`
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID          int64           `json:"id"`
	UTCDate     string          `json:"utcDate"`
	Status      string          `json:"status"`
	Matchday    *int            `json:"matchday"`
	Stage       string          `json:"stage"`
	Competition competitionItem `json:"competition"`
	Season      struct {
		StartDate string `json:"startDate"`
	} `json:"season"`
	HomeTeam teamItem `json:"homeTeam"`
	AwayTeam teamItem `json:"awayTeam"`
	Score    struct {
		Winner   string    `json:"winner"`
		Duration string    `json:"duration"`
		FullTime scorePair `json:"fullTime"`
		HalfTime scorePair `json:"halfTime"`
	} `json:"score"`
	Odds struct {
		HomeWin *float64 `json:"homeWin"`
		Draw    *float64 `json:"draw"`
		AwayWin *float64 `json:"awayWin"`
	} `json:"odds"`
}

type teamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
