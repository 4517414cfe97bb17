package metrics

import (
	"math"

	"github.com/Benny93/archmap-go/internal/graph"
)

// ComplexityModelVersion identifies the scoring constants below. The
// weights and caps change classification outcomes, so any adjustment
// must bump this version.
const ComplexityModelVersion = 1

// Scoring weights and per-factor caps (0-100 total).
const (
	dependencyRatioWeight = 8.0
	dependencyRatioCap    = 25.0

	locPerFileDivisor = 12.0
	locPerFileCap     = 20.0

	centralityWeight = 80.0
	centralityCap    = 15.0

	fanOutWeight = 4.0
	fanOutCap    = 20.0

	fanInWeight = 3.0
	fanInCap    = 15.0

	balanceWeight = 25.0
	balanceCap    = 5.0
)

// Complexity level bucket boundaries.
const (
	levelModerateAt = 20.0
	levelHighAt     = 40.0
	levelVeryHighAt = 60.0
)

// ComplexityMetrics echoes the aggregate inputs that produced the score.
type ComplexityMetrics struct {
	TotalFiles           int     `json:"total_files"`
	TotalLOC             int     `json:"total_loc"`
	TotalDependencies    int     `json:"total_dependencies"`
	InternalDependencies int     `json:"internal_dependencies"`
	ExternalDependencies int     `json:"external_dependencies"`
	AvgLOCPerFile        float64 `json:"avg_loc_per_file"`
	DependencyRatio      float64 `json:"dependency_ratio"`
	AvgCentrality        float64 `json:"avg_centrality"`
	AvgInCentrality      float64 `json:"avg_in_centrality"`
	AvgOutCentrality     float64 `json:"avg_out_centrality"`
	AvgFanOut            float64 `json:"avg_fan_out"`
	AvgFanIn             float64 `json:"avg_fan_in"`
}

// Indicators flags structural conditions worth surfacing alongside the
// numeric score.
type Indicators struct {
	HighCoupling            bool `json:"high_coupling"`
	LargeFiles              bool `json:"large_files"`
	ComplexDependencies     bool `json:"complex_dependencies"`
	CentralizedArchitecture bool `json:"centralized_architecture"`
	HighFanIn               bool `json:"high_fan_in"`
	ImbalancedCentrality    bool `json:"imbalanced_centrality"`
}

// Complexity is the scorer output.
type Complexity struct {
	Score        float64           `json:"score"`
	Level        string            `json:"level"`
	ModelVersion int               `json:"model_version"`
	Metrics      ComplexityMetrics `json:"metrics"`
	Indicators   Indicators        `json:"indicators"`
}

// ComplexityInput carries the aggregates the scorer needs.
type ComplexityInput struct {
	TotalFiles    int
	TotalLOC      int
	TotalEdges    int
	InternalEdges int
	ExternalEdges int
	Nodes         map[string]graph.NodeMetrics
}

// ScoreComplexity sums six weighted, individually capped factors into a
// 0-100 score and buckets it into a level.
func ScoreComplexity(input ComplexityInput) *Complexity {
	var avgCentrality, avgIn, avgOut, avgFanOut, avgFanIn float64
	if len(input.Nodes) > 0 {
		for _, m := range input.Nodes {
			avgCentrality += m.DegreeCentrality
			avgIn += m.InDegreeCentrality
			avgOut += m.OutDegreeCentrality
			avgFanOut += float64(m.FanOut)
			avgFanIn += float64(m.FanIn)
		}
		n := float64(len(input.Nodes))
		avgCentrality /= n
		avgIn /= n
		avgOut /= n
		avgFanOut /= n
		avgFanIn /= n
	}

	var dependencyRatio, locPerFile float64
	if input.TotalFiles > 0 {
		dependencyRatio = float64(input.TotalEdges) / float64(input.TotalFiles)
		locPerFile = float64(input.TotalLOC) / float64(input.TotalFiles)
	}

	score := math.Min(dependencyRatio*dependencyRatioWeight, dependencyRatioCap) +
		math.Min(locPerFile/locPerFileDivisor, locPerFileCap) +
		math.Min(avgCentrality*centralityWeight, centralityCap) +
		math.Min(avgFanOut*fanOutWeight, fanOutCap) +
		math.Min(avgFanIn*fanInWeight, fanInCap) +
		math.Min((avgIn+avgOut)*balanceWeight, balanceCap)

	return &Complexity{
		Score:        round1(score),
		Level:        classifyLevel(score),
		ModelVersion: ComplexityModelVersion,
		Metrics: ComplexityMetrics{
			TotalFiles:           input.TotalFiles,
			TotalLOC:             input.TotalLOC,
			TotalDependencies:    input.TotalEdges,
			InternalDependencies: input.InternalEdges,
			ExternalDependencies: input.ExternalEdges,
			AvgLOCPerFile:        round1(locPerFile),
			DependencyRatio:      round2(dependencyRatio),
			AvgCentrality:        round4(avgCentrality),
			AvgInCentrality:      round4(avgIn),
			AvgOutCentrality:     round4(avgOut),
			AvgFanOut:            round2(avgFanOut),
			AvgFanIn:             round2(avgFanIn),
		},
		Indicators: Indicators{
			HighCoupling:            dependencyRatio > 3.0,
			LargeFiles:              locPerFile > 200,
			ComplexDependencies:     avgFanOut > 5,
			CentralizedArchitecture: avgCentrality > 0.3,
			HighFanIn:               avgFanIn > 3,
			ImbalancedCentrality:    math.Abs(avgIn-avgOut) > 0.2,
		},
	}
}

// classifyLevel buckets a score into a human-readable level.
func classifyLevel(score float64) string {
	switch {
	case score < levelModerateAt:
		return "Low"
	case score < levelHighAt:
		return "Moderate"
	case score < levelVeryHighAt:
		return "High"
	default:
		return "Very High"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
