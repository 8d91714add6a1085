// Helpers for working with scan results at application layer.
package scan

import "github.com/lockwhz/leakcheck/models"

// FlattenMatches percorre os resultados por regra e devolve todas as
// ocorrências em uma lista única, na ordem do catálogo.
func FlattenMatches(results []models.ScanResult) []models.Match {
	size := 0
	for _, r := range results {
		size += len(r.Matches)
	}
	out := make([]models.Match, 0, size)
	for _, r := range results {
		out = append(out, r.Matches...)
	}
	return out
}

// CountByLocation devolve um mapa local → quantidade de ocorrências.
func CountByLocation(results []models.ScanResult) map[string]int {
	tally := make(map[string]int)
	for _, r := range results {
		for _, m := range r.Matches {
			tally[m.Location]++
		}
	}
	return tally
}
