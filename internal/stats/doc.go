// Package stats implements the fixed hypothesis-test battery run over the
// cleaned and derived shelter dataset.
//
// # Analyses
//
// The battery reproduces the capstone analysis sequence exactly:
//
//  1. Ordinary least squares: stay_duration_days ~ animal_type +
//     intake_type + intake_season with dummy-coded factors
//  2. One-way ANOVA of stay duration by animal type
//  3. Kruskal-Wallis rank test on the same grouping
//  4. Dunn's pairwise post-hoc comparisons with Holm (default) or
//     Bonferroni p-value adjustment
//  5. Welch two-sample t-test of stay duration, adopted vs not adopted
//  6. Chi-squared independence tests over the three pairs of
//     {intake_type, outcome_type, animal_type}, with an optional
//     seeded Monte-Carlo p-value for sparse tables
//  7. Cramér's V association strength for every contingency table
//
// # Architecture
//
// One file per analysis, mirroring the result structs in types.go:
//
//   - ols.go: dummy-coded linear model via QR decomposition
//   - anova.go: one-way analysis of variance
//   - kruskal.go: Kruskal-Wallis H with tie correction
//   - dunn.go: pairwise rank comparisons and p-value adjustment
//   - ttest.go: Welch unequal-variance t-test
//   - chisquare.go: Pearson chi-squared and Cramér's V
//   - groups.go: group extraction and shared ranking helpers
//   - runner.go: battery orchestration
//
// Every analysis is stateless, operates on read-only views, and returns a
// descriptive insufficient-data error instead of NaN when its
// preconditions fail. A failed analysis never aborts the battery.
package stats
