package analytics

import (
	"sort"

	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

// SymptomCount is how often a symptom was logged
type SymptomCount struct {
	Name  string
	Count int
}

// SymptomDistribution counts symptom names across entries and returns the
// top n, most frequent first. Ties are ordered by name. n <= 0 returns all.
func SymptomDistribution(entries []domain.SymptomEntry, n int) []SymptomCount {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, name := range e.Names {
			counts[name]++
		}
	}

	dist := make([]SymptomCount, 0, len(counts))
	for name, count := range counts {
		dist = append(dist, SymptomCount{Name: name, Count: count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Name < dist[j].Name
	})

	if n > 0 && len(dist) > n {
		dist = dist[:n]
	}
	return dist
}
