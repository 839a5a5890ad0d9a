package footballdata

import (
	"sort"
	"strings"
)

// MajorCompetitions maps well-known league names to football-data ids
var MajorCompetitions = map[string]int64{
	"PREMIER_LEAGUE":   2021,
	"LA_LIGA":          2014,
	"BUNDESLIGA":       2002,
	"SERIE_A":          2019,
	"LIGUE_1":          2015,
	"EREDIVISIE":       2003,
	"PRIMEIRA_LIGA":    2017,
	"CHAMPIONS_LEAGUE": 2001,
	"EUROPA_LEAGUE":    2018,
}

// CompetitionID looks up a major competition by name, case-insensitively
func CompetitionID(name string) (int64, bool) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	id, ok := MajorCompetitions[key]
	return id, ok
}

// CompetitionNames returns the major competition names, sorted
func CompetitionNames() []string {
	names := make([]string, 0, len(MajorCompetitions))
	for name := range MajorCompetitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
