package domain

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ForecastSummary struct {
	Weeks                int     `json:"weeks"`
	TotalCapacity        float64 `json:"totalCapacity"`
	AllocatedHours       float64 `json:"allocatedHours"`
	AvailableHours       float64 `json:"availableHours"`
	UtilizationPct       float64 `json:"utilizationPct"`
	MeanUtilizationPct   float64 `json:"meanUtilizationPct"`
	StdDevUtilizationPct float64 `json:"stdDevUtilizationPct"`
	PeakUtilizationPct   float64 `json:"peakUtilizationPct"`
	PeakWeekStart        string  `json:"peakWeekStart,omitempty"`
}

// SummarizeForecast aggregates a forecast horizon. UtilizationPct is computed
// over the summed hours; the mean is the unweighted mean of weekly values.
func SummarizeForecast(weeks []CapacityForecastWeek) ForecastSummary {
	summary := ForecastSummary{Weeks: len(weeks)}
	if len(weeks) == 0 {
		return summary
	}

	utilization := make([]float64, len(weeks))
	for idx, week := range weeks {
		utilization[idx] = week.UtilizationPct
		summary.TotalCapacity += week.TotalCapacity
		summary.AllocatedHours += week.AllocatedHours
		summary.AvailableHours += week.AvailableHours
	}
	summary.UtilizationPct = ratio(summary.AllocatedHours, summary.TotalCapacity)

	if len(utilization) == 1 {
		summary.MeanUtilizationPct = utilization[0]
	} else {
		summary.MeanUtilizationPct, summary.StdDevUtilizationPct = stat.MeanStdDev(utilization, nil)
	}

	peak := floats.MaxIdx(utilization)
	summary.PeakUtilizationPct = utilization[peak]
	summary.PeakWeekStart = weeks[peak].WeekStart
	return summary
}
