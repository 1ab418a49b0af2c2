package experiments

import (
	"io"
	"time"

	"github.com/vilhelmlindell/maxi-yahtzee/experiments/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates every game one agent config took part in.
type Summary struct {
	Agent     metrics.AgentConfig
	Games     int
	Wins      int // Multi player games won
	Beats     int // Single player games above the score to beat
	MeanScore float64
	StdDev    float64
	Visits    int
	Searching time.Duration
}

// VisitsPerSecond is the merged root visit rate while searching.
func (s Summary) VisitsPerSecond() float64 {
	if s.Searching <= 0 {
		return 0
	}
	return float64(s.Visits) / s.Searching.Seconds()
}

// Summarize groups the records by agent config, in the order of configs.
// Configs that played no game are left out.
func Summarize(configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) []Summary {
	index := make(map[int]int, len(configs))
	summaries := make([]Summary, len(configs))
	scores := make([][]float64, len(configs))
	for i, config := range configs {
		index[config.ID] = i
		summaries[i].Agent = config
	}

	seats := make(map[int][]int, len(gameRecords))
	for _, record := range gameRecords {
		seats[record.ID] = record.Agents
		for seat, id := range record.Agents {
			i, ok := index[id]
			if !ok || seat >= len(record.Scores) {
				continue
			}
			summaries[i].Games++
			scores[i] = append(scores[i], float64(record.Scores[seat]))
			if record.Players > 1 && record.Winner == seat {
				summaries[i].Wins++
			}
			if record.Players == 1 && record.Beat {
				summaries[i].Beats++
			}
		}
	}

	for _, record := range moveRecords {
		agents := seats[record.Game]
		if record.Player >= len(agents) {
			continue
		}
		i, ok := index[agents[record.Player]]
		if !ok {
			continue
		}
		summaries[i].Visits += record.Visits
		summaries[i].Searching += record.Duration
	}

	result := make([]Summary, 0, len(summaries))
	for i, s := range summaries {
		if s.Games == 0 {
			continue
		}
		s.MeanScore, s.StdDev = stat.MeanStdDev(scores[i], nil)
		if len(scores[i]) == 1 {
			s.StdDev = 0
		}
		result = append(result, s)
	}
	return result
}

// PrintSummaries writes one line per summary with grouped thousands.
func PrintSummaries(w io.Writer, summaries []Summary) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "%-6s %-10s %-8s %-8s %-6s %-6s %-10s %-8s %s\n", "agent", "goroutines", "budget", "games", "wins", "beats", "mean", "stddev", "visits/s")
	for _, s := range summaries {
		budget := s.Agent.Duration.String()
		if s.Agent.Episodes > 0 {
			budget = p.Sprintf("%d ep", s.Agent.Episodes)
		}
		p.Fprintf(w, "%-6d %-10d %-8s %-8d %-6d %-6d %-10.1f %-8.1f %.0f\n",
			s.Agent.ID, s.Agent.Goroutines, budget, s.Games, s.Wins, s.Beats, s.MeanScore, s.StdDev, s.VisitsPerSecond())
	}
}
