package reconcile

import (
	"sort"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/teamname"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
)

// SourceBatch is every raw record one source produced for a run.
type SourceBatch struct {
	Source  string
	Records []match.RawRecord
}

// MergeReport summarizes one Merge call.
type MergeReport struct {
	Sources           int `json:"sources"`
	InputRecords      int `json:"input_records"`
	Groups            int `json:"groups"`
	MultiSourceGroups int `json:"multi_source_groups"`
	FieldConflicts    int `json:"field_conflicts"`
	UnknownDateGroups int `json:"unknown_date_groups"`
}

// Reconciler merges per-source records into one canonical record per match.
// It holds no mutable state and is safe for concurrent use.
type Reconciler struct {
	names  *teamname.Canonicalizer
	keys   *match.KeyBuilder
	policy Policy
	logger *logging.Logger
}

func NewReconciler(names *teamname.Canonicalizer, policy Policy, logger *logging.Logger) *Reconciler {
	if names == nil {
		names = teamname.NewCanonicalizer(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	if policy.Priorities == nil && len(policy.IdentityFields) == 0 {
		policy = DefaultPolicy()
	}
	return &Reconciler{
		names:  names,
		keys:   match.NewKeyBuilder(names),
		policy: policy,
		logger: logger,
	}
}

// Merge reconciles batches and returns records sorted by match key.
func (r *Reconciler) Merge(batches []SourceBatch, primary string) []match.Canonical {
	out, _ := r.MergeWithReport(batches, primary)
	return out
}

type rankedRecord struct {
	match.TaggedRecord
	rank int
}

func (r *Reconciler) MergeWithReport(batches []SourceBatch, primary string) ([]match.Canonical, MergeReport) {
	report := MergeReport{}

	tagged := make([]match.TaggedRecord, 0)
	for _, batch := range batches {
		if len(batch.Records) == 0 {
			continue
		}
		report.Sources++
		for _, rec := range batch.Records {
			tagged = append(tagged, match.TaggedRecord{Source: batch.Source, Record: r.normalizeTeams(rec)})
		}
	}
	report.InputRecords = len(tagged)

	if len(tagged) == 0 {
		r.logger.Warn("reconcile: no records to merge", "batches", len(batches), "primary_source", primary)
		return []match.Canonical{}, report
	}

	groups := make(map[string][]rankedRecord, len(tagged))
	order := make([]string, 0, len(tagged))
	for _, rec := range tagged {
		key := r.keys.Build(rec.Record[match.FieldDate], match.ToText(rec.Record[match.FieldHomeTeam]), match.ToText(rec.Record[match.FieldAwayTeam]))
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rankedRecord{TaggedRecord: rec, rank: r.policy.Rank(rec.Source, primary)})
	}

	out := make([]match.Canonical, 0, len(order))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool { return group[i].rank < group[j].rank })

		merged, conflicts := r.mergeGroup(group)
		sources := distinctSources(group)
		if len(sources) > 1 {
			report.MultiSourceGroups++
		}
		report.FieldConflicts += conflicts

		canonical := match.FromRecord(key, merged, sources)
		if !canonical.HasDate() {
			report.UnknownDateGroups++
		}
		out = append(out, canonical)
	}
	report.Groups = len(out)

	match.SortByKey(out)
	r.logger.Info("reconcile: merge finished",
		"primary_source", primary,
		"sources", report.Sources,
		"input_records", report.InputRecords,
		"groups", report.Groups,
		"multi_source_groups", report.MultiSourceGroups,
		"field_conflicts", report.FieldConflicts,
	)
	if report.UnknownDateGroups > 0 {
		r.logger.Warn("reconcile: records without a usable date share unknown-date keys", "groups", report.UnknownDateGroups)
	}
	return out, report
}

// normalizeTeams copies rec with canonical team names.
func (r *Reconciler) normalizeTeams(rec match.RawRecord) match.RawRecord {
	out := make(match.RawRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	for _, field := range []string{match.FieldHomeTeam, match.FieldAwayTeam} {
		if v, ok := out[field]; ok && !match.IsMissing(v) {
			out[field] = r.names.Normalize(match.ToText(v))
		}
	}
	return out
}

// mergeGroup resolves every field of a rank-sorted group and counts fields on
// which sources disagreed.
func (r *Reconciler) mergeGroup(group []rankedRecord) (match.RawRecord, int) {
	if len(group) == 1 {
		return group[0].Record, 0
	}

	fields := make([]string, 0, len(group[0].Record))
	seen := map[string]struct{}{}
	for _, rec := range group {
		for field := range rec.Record {
			if _, ok := seen[field]; !ok {
				seen[field] = struct{}{}
				fields = append(fields, field)
			}
		}
	}
	sort.Strings(fields)

	merged := make(match.RawRecord, len(fields))
	conflicts := 0
	for _, field := range fields {
		value, ok := r.resolve(field, group)
		if !ok {
			continue
		}
		merged[field] = value
		if disagree(field, group) {
			conflicts++
		}
	}
	return merged, conflicts
}

func (r *Reconciler) resolve(field string, group []rankedRecord) (any, bool) {
	if !r.policy.isIdentity(field) && match.IsXGField(field) && r.policy.StatsSource != "" {
		for _, rec := range group {
			if rec.Source != r.policy.StatsSource {
				continue
			}
			if v := rec.Record[field]; !match.IsMissing(v) {
				return v, true
			}
		}
	}
	return firstPresent(field, group)
}

func firstPresent(field string, group []rankedRecord) (any, bool) {
	for _, rec := range group {
		if v, ok := rec.Record[field]; ok && !match.IsMissing(v) {
			return v, true
		}
	}
	return nil, false
}

func disagree(field string, group []rankedRecord) bool {
	first, found := "", false
	for _, rec := range group {
		v, ok := rec.Record[field]
		if !ok || match.IsMissing(v) {
			continue
		}
		text := match.ToText(v)
		if !found {
			first, found = text, true
			continue
		}
		if text != first {
			return true
		}
	}
	return false
}

func distinctSources(group []rankedRecord) []string {
	out := make([]string, 0, len(group))
	seen := make(map[string]struct{}, len(group))
	for _, rec := range group {
		if _, ok := seen[rec.Source]; ok {
			continue
		}
		seen[rec.Source] = struct{}{}
		out = append(out, rec.Source)
	}
	return out
}
