package api

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/types"
)

// textCell keeps spreadsheets from evaluating user text as a formula.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func writeCSV(w http.ResponseWriter, filename string, records [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	_ = cw.WriteAll(records)
}

func writeResultsCSV(w http.ResponseWriter, rows []types.RankedResult) {
	records := [][]string{{"rank", "participant", "time", "distance", "reps", "points"}}
	for _, row := range rows {
		var distance, reps string
		if row.Distance != nil {
			distance = model.FormatDistance(*row.Distance)
		}
		if row.Reps != nil {
			reps = strconv.Itoa(*row.Reps)
		}
		records = append(records, []string{
			strconv.Itoa(row.Rank),
			textCell(row.ParticipantName),
			row.TimeDisplay,
			distance,
			reps,
			strconv.Itoa(row.Points),
		})
	}
	writeCSV(w, "results.csv", records)
}

func writeLeaderboardCSV(w http.ResponseWriter, standings []types.Standing) {
	records := [][]string{{"rank", "participant", "total_points"}}
	for _, st := range standings {
		records = append(records, []string{
			strconv.Itoa(st.Rank),
			textCell(st.ParticipantName),
			strconv.Itoa(st.TotalPoints),
		})
	}
	writeCSV(w, "leaderboard.csv", records)
}
