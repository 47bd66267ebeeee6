package analysis

import (
	"context"
	"fmt"

	"github.com/hannesill/oasis/internal/facility"
)

// countSampleSize caps how many example facilities a count result lists.
const countSampleSize = 5

// CountParams configure an aggregate facility count.
type CountParams struct {
	Condition string `json:"condition,omitempty"`
	Region    string `json:"region,omitempty"`
}

// Count totals facilities matching the filter with a per-region breakdown and
// a small sample. No distance filtering is involved.
func (e *Engine) Count(ctx context.Context, p CountParams) (*CountResult, error) {
	filter := facility.Filter{Condition: p.Condition, Region: p.Region}

	counts, err := e.store.CountByRegion(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := 0
	breakdown := make(map[string]int, len(counts))
	for region, n := range counts {
		total += n
		if region == "" {
			region = "Unknown"
		}
		breakdown[region] += n
	}

	sampled, err := e.store.Sample(ctx, filter, countSampleSize)
	if err != nil {
		return nil, err
	}
	samples := make([]SampleFacility, 0, len(sampled))
	for _, f := range sampled {
		samples = append(samples, SampleFacility{
			Name:        f.Name,
			City:        f.City,
			Region:      f.Region,
			Specialties: f.Specialties,
		})
	}

	condText := ""
	if p.Condition != "" {
		condText = fmt.Sprintf(" with %s", p.Condition)
	}
	regionText := " across Ghana"
	if p.Region != "" {
		regionText = fmt.Sprintf(" in %s", p.Region)
	}

	return &CountResult{
		TotalCount:        total,
		ConditionFilter:   p.Condition,
		RegionFilter:      p.Region,
		BreakdownByRegion: breakdown,
		SampleFacilities:  samples,
		Summary:           fmt.Sprintf("Found %d facilities%s%s.", total, condText, regionText),
	}, nil
}
