package schema

import "time"

// Forecasting and learning-lifecycle constants.
const (
	// MinForecastPoints is the floor below which no model is trained.
	MinForecastPoints = 10
	// IncrementalThreshold is how many unseen points trigger an update.
	IncrementalThreshold = 5
	// MaxModelAgeDays forces a full retrain once a model gets stale.
	MaxModelAgeDays = 30
	// LearningRate drives the online gradient updates.
	LearningRate = 0.01
	// DefaultHorizonDays is the forecast horizon when none is given.
	DefaultHorizonDays = 14
	// HistoryCap bounds how many snapshots feed training per subject.
	HistoryCap = 50
	// MSEWindow is how many recent update errors feed the confidence band.
	MSEWindow = 5
)

// Anomaly-detection constants.
const (
	MinAnomalyPoints = 5
	ZScoreThreshold  = 2.5
	Contamination    = 0.1
	MovingAvgWindow  = 7
)

// Clustering constants.
const (
	ClusterMinSubjects = 3
	MaxClusters        = 4
)

// ModelKind discriminates the trained model families.
type ModelKind string

// Supported model kinds.
const (
	ModelAutoregressive ModelKind = "autoregressive"
	ModelOnlineLinear   ModelKind = "online_linear"
)

// TrainOutcome reports what a training pass did for one model.
type TrainOutcome string

// Training outcomes.
const (
	TrainedFull        TrainOutcome = "full"
	TrainedIncremental TrainOutcome = "incremental"
	TrainSkippedFresh  TrainOutcome = "skipped_fresh"
	TrainInsufficient  TrainOutcome = "insufficient_data"
	TrainFailed        TrainOutcome = "failed"
)

// ModelMeta is the bookkeeping carried alongside every persisted model.
// ModelVersion increments on full retrains only; incremental updates bump
// UpdateCount and leave the version alone.
type ModelMeta struct {
	Subject       string       `json:"subject"`
	MetricPath    string       `json:"metric_path"`
	Kind          ModelKind    `json:"kind"`
	ModelVersion  int          `json:"model_version"`
	TrainedAt     time.Time    `json:"trained_at"`
	LastUpdatedAt time.Time    `json:"last_updated_at"`
	PointsSeen    int          `json:"points_seen"`
	UpdateCount   int          `json:"update_count"`
	LastOutcome   TrainOutcome `json:"last_outcome"`
}

// ForecastPoint is one predicted value with its confidence band.
type ForecastPoint struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	Value      float64 `json:"value"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Forecast is the full prediction for one (subject, metric) pair.
type Forecast struct {
	Subject     string          `json:"subject"`
	MetricPath  string          `json:"metric_path"`
	HorizonDays int             `json:"horizon_days"`
	Kind        ModelKind       `json:"model_kind"`
	Points      []ForecastPoint `json:"points"`
	Trend       TrendDirection  `json:"trend"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// AnomalyDetector names which detector flagged a point.
type AnomalyDetector string

// Detectors, in dedupe priority order.
const (
	DetectorDensity   AnomalyDetector = "density"
	DetectorZScore    AnomalyDetector = "zscore"
	DetectorMovingAvg AnomalyDetector = "moving_average"
)

// Anomaly is one flagged data point.
type Anomaly struct {
	Index    int             `json:"index"`
	Date     string          `json:"date"`
	Value    float64         `json:"value"`
	Expected float64         `json:"expected"`
	Detector AnomalyDetector `json:"detector"`
	Severity float64         `json:"severity"`
}

// AnomalyReport is the union of all detectors over one metric series.
type AnomalyReport struct {
	Subject      string    `json:"subject"`
	MetricPath   string    `json:"metric_path"`
	Anomalies    []Anomaly `json:"anomalies"`
	AnomalyScore float64   `json:"anomaly_score"` // flagged / total * 100
	TotalPoints  int       `json:"total_points"`
	Insufficient bool      `json:"insufficient_data,omitempty"`
}

// Cluster is one behavioral group of subjects.
type Cluster struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Subjects []string  `json:"subjects"`
	Centroid []float64 `json:"centroid"` // raw (unstandardized) feature space
}

// ClusterResult groups subjects by performance profile.
type ClusterResult struct {
	Clusters     []Cluster `json:"clusters"`
	SubjectCount int       `json:"subject_count"`
	FeatureNames []string  `json:"feature_names"`
	GeneratedAt  time.Time `json:"generated_at"`
	Insufficient bool      `json:"insufficient_data,omitempty"`
}

// ClusterFeatureNames is the fixed order of the clustering feature space.
var ClusterFeatureNames = []string{
	"lead_time_hours",
	"deploys_per_week",
	"failure_rate",
	"review_coverage",
	"commit_streak",
	"unique_reviewers",
}

// RiskLevel grades degradation risk.
type RiskLevel string

// Degradation risk levels.
const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// GradeForecast projects the performance grade forward in time.
type GradeForecast struct {
	Subject             string  `json:"subject"`
	PredictedGrade      string  `json:"predicted_grade"`
	PredictedPercentage float64 `json:"predicted_percentage"`
	Confidence          float64 `json:"confidence"`
	Trend               string  `json:"trend"` // improving, declining, stable
	ForecastDate        string  `json:"forecast_date"`
}

// DegradationReport assesses the risk of performance decline.
type DegradationReport struct {
	Subject           string    `json:"subject"`
	RiskLevel         RiskLevel `json:"risk_level"`
	Prediction        string    `json:"prediction"`
	TrendChangePct    float64   `json:"trend_change_percentage"`
	RecentAverage     float64   `json:"recent_average"`
	HistoricalAverage float64   `json:"historical_average"`
	Volatility        string    `json:"volatility"`
	Confidence        float64   `json:"confidence"`
}

// InsightsReport carries actionable observations derived from a snapshot
// and its history.
type InsightsReport struct {
	PerformanceInsights []string `json:"performance_insights"`
	TrendInsights       []string `json:"trend_insights"`
	Recommendations     []string `json:"recommendations"`
	Alerts              []string `json:"alerts"`
	Bottlenecks         []string `json:"bottlenecks"`
}

// LearningStatus describes one model's lifecycle state.
type LearningStatus struct {
	Subject       string       `json:"subject"`
	MetricPath    string       `json:"metric_path"`
	Kind          ModelKind    `json:"kind"`
	ModelVersion  int          `json:"model_version"`
	TrainedAt     time.Time    `json:"trained_at"`
	LastUpdatedAt time.Time    `json:"last_updated_at"`
	PointsSeen    int          `json:"points_seen"`
	UpdateCount   int          `json:"update_count"`
	LastOutcome   TrainOutcome `json:"last_outcome"`
	AgeDays       float64      `json:"age_days"`
	Freshness     string       `json:"freshness"` // fresh, aging, stale
	Stale         bool         `json:"stale"`
}

// LearningSummary aggregates lifecycle state across all models.
type LearningSummary struct {
	Models       []LearningStatus `json:"models"`
	TotalModels  int              `json:"total_models"`
	StaleModels  int              `json:"stale_models"`
	TotalUpdates int              `json:"total_updates"`
}
