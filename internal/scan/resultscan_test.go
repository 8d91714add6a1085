package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lockwhz/leakcheck/models"
)

func TestFlattenAndCount(t *testing.T) {
	results := []models.ScanResult{
		{RuleName: "a", Matches: []models.Match{{Location: models.LocationTree, Path: "x"}}},
		{RuleName: "b"},
		{RuleName: "c", Matches: []models.Match{
			{Location: models.LocationHistory, Commit: "1"},
			{Location: models.LocationTree, Path: "y"},
		}},
	}

	flat := FlattenMatches(results)
	assert.Len(t, flat, 3)
	assert.Equal(t, "x", flat[0].Path)
	assert.Equal(t, "y", flat[2].Path)

	assert.Equal(t, map[string]int{models.LocationTree: 2, models.LocationHistory: 1}, CountByLocation(results))
	assert.Empty(t, FlattenMatches(nil))
}
