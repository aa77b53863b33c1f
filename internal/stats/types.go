package stats

// AdjustMethod selects the multiple-comparison p-value adjustment used by
// Dunn's post-hoc test.
type AdjustMethod string

const (
	AdjustHolm       AdjustMethod = "holm"
	AdjustBonferroni AdjustMethod = "bonferroni"
)

// Coefficient is one fitted term of the linear model
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
}

// OLSResult holds the fitted linear model summary
type OLSResult struct {
	Formula        string        `json:"formula"`
	N              int           `json:"n"`
	Coefficients   []Coefficient `json:"coefficients"`
	RSquared       float64       `json:"r_squared"`
	ResidualStdErr float64       `json:"residual_std_err"`
	FStatistic     float64       `json:"f_statistic"`
	DFModel        int           `json:"df_model"`
	DFResidual     int           `json:"df_residual"`
	PValue         float64       `json:"p_value"`
}

// GroupSummary describes one level of a grouped analysis
type GroupSummary struct {
	Level string  `json:"level"`
	N     int     `json:"n"`
	Mean  float64 `json:"mean"`
}

// ANOVAResult holds a one-way analysis of variance summary
type ANOVAResult struct {
	Grouping   string         `json:"grouping"`
	FStatistic float64        `json:"f_statistic"`
	DFBetween  int            `json:"df_between"`
	DFWithin   int            `json:"df_within"`
	PValue     float64        `json:"p_value"`
	Groups     []GroupSummary `json:"groups"`
}

// KruskalWallisResult holds the rank-based alternative to the ANOVA
type KruskalWallisResult struct {
	Grouping string  `json:"grouping"`
	H        float64 `json:"h_statistic"`
	DF       int     `json:"df"`
	PValue   float64 `json:"p_value"`
}

// DunnComparison is one pairwise comparison from Dunn's test
type DunnComparison struct {
	LevelA    string  `json:"level_a"`
	LevelB    string  `json:"level_b"`
	Z         float64 `json:"z"`
	PValue    float64 `json:"p_value"`
	AdjustedP float64 `json:"adjusted_p"`
}

// DunnResult holds all pairwise comparisons with their adjustment method
type DunnResult struct {
	Grouping    string           `json:"grouping"`
	Adjustment  AdjustMethod     `json:"adjustment"`
	Comparisons []DunnComparison `json:"comparisons"`
}

// TTestResult holds a Welch two-sample t-test summary
type TTestResult struct {
	GroupA          string  `json:"group_a"`
	GroupB          string  `json:"group_b"`
	NA              int     `json:"n_a"`
	NB              int     `json:"n_b"`
	MeanA           float64 `json:"mean_a"`
	MeanB           float64 `json:"mean_b"`
	T               float64 `json:"t_statistic"`
	DF              float64 `json:"df"`
	PValue          float64 `json:"p_value"`
	ConfidenceLevel float64 `json:"confidence_level"`
	CILow           float64 `json:"ci_low"`
	CIHigh          float64 `json:"ci_high"`
}

// ChiSquareResult holds one independence test with its companion
// Cramér's V association strength.
type ChiSquareResult struct {
	RowVar      string  `json:"row_var"`
	ColVar      string  `json:"col_var"`
	N           int     `json:"n"`
	Statistic   float64 `json:"statistic"`
	DF          int     `json:"df"`
	PValue      float64 `json:"p_value"`
	Simulated   bool    `json:"simulated"`
	Draws       int     `json:"draws,omitempty"`
	Seed        int64   `json:"seed,omitempty"`
	LowExpected bool    `json:"low_expected"`
	CramersV    float64 `json:"cramers_v"`
}

// BatteryResult aggregates every analysis in the battery. A nil slot with
// a matching Failures entry means that analysis hit its precondition
// guard; Notes records analyses skipped by design (e.g. Dunn after a
// non-significant Kruskal-Wallis).
type BatteryResult struct {
	LinearModel   *OLSResult           `json:"linear_model,omitempty"`
	ANOVA         *ANOVAResult         `json:"anova,omitempty"`
	KruskalWallis *KruskalWallisResult `json:"kruskal_wallis,omitempty"`
	Dunn          *DunnResult          `json:"dunn,omitempty"`
	WelchT        *TTestResult         `json:"welch_t,omitempty"`
	ChiSquare     []*ChiSquareResult   `json:"chi_square,omitempty"`
	Failures      map[string]string    `json:"failures,omitempty"`
	Notes         map[string]string    `json:"notes,omitempty"`
}
