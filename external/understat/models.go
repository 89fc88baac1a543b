package understat

// leagueData is the body of /getLeagueData/{league}/{season}. Numbers arrive as
// strings and are kept raw on the records.
type leagueData struct {
	Dates []matchItem `json:"dates"`
}

type matchItem struct {
	ID       string   `json:"id"`
	IsResult bool     `json:"isResult"`
	Home     teamItem `json:"h"`
	Away     teamItem `json:"a"`
	Goals    sidePair `json:"goals"`
	XG       sidePair `json:"xG"`
	Datetime string   `json:"datetime"`
	Forecast *struct {
		Win  string `json:"w"`
		Draw string `json:"d"`
		Loss string `json:"l"`
	} `json:"forecast"`
}

type teamItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"short_title"`
}

type sidePair struct {
	Home *string `json:"h"`
	Away *string `json:"a"`
}
