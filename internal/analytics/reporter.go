// Package analytics produces corpus rollups and keeps the search event log.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/gcbaptista/go-content-engine/model"
)

// Reporter aggregates a document snapshot. It keeps no cache; callers build a new Reporter
// from a fresh snapshot after the corpus changes.
type Reporter struct {
	docs []model.Document
}

// NewReporter creates a Reporter over docs. The slice is read, never modified.
func NewReporter(docs []model.Document) *Reporter {
	return &Reporter{docs: docs}
}

// DirectorySummary summarises the documents whose directory equals dir exactly.
func (r *Reporter) DirectorySummary(dir string) model.Summary {
	acc := newAccumulator()
	for i := range r.docs {
		if r.docs[i].Directory == dir {
			acc.add(&r.docs[i])
		}
	}
	summary := acc.summary()
	summary.Directory = dir
	return summary
}

// GlobalSummary summarises the whole snapshot, listing distinct directories (sorted) and
// the number of documents carrying a non-empty transcript per language.
func (r *Reporter) GlobalSummary() model.GlobalSummary {
	acc := newAccumulator()
	directories := make(map[string]struct{})
	languages := make(map[string]int)

	for i := range r.docs {
		doc := &r.docs[i]
		acc.add(doc)
		if doc.Directory != "" {
			directories[doc.Directory] = struct{}{}
		}
		for lang, transcript := range doc.Transcripts {
			if strings.TrimSpace(transcript) != "" {
				languages[lang]++
			}
		}
	}

	dirs := make([]string, 0, len(directories))
	for d := range directories {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	return model.GlobalSummary{
		Summary:     acc.summary(),
		Directories: dirs,
		Languages:   languages,
	}
}

// DirectoryRollups groups the snapshot by directory, largest group first, then by directory name.
// The average duration only counts documents with a known duration.
func (r *Reporter) DirectoryRollups() []model.DirectoryRollup {
	type group struct {
		rollup    model.DirectoryRollup
		durations float64
		timed     int
	}
	groups := make(map[string]*group)

	for i := range r.docs {
		doc := &r.docs[i]
		g, ok := groups[doc.Directory]
		if !ok {
			g = &group{rollup: model.DirectoryRollup{
				Directory:  doc.Directory,
				Categories: make(map[model.Category]int),
			}}
			groups[doc.Directory] = g
		}
		g.rollup.Count++
		g.rollup.Categories[categoryOf(doc)]++
		if d, ok := doc.Duration(); ok {
			g.durations += d
			g.timed++
		}
	}

	rollups := make([]model.DirectoryRollup, 0, len(groups))
	for _, g := range groups {
		if g.timed > 0 {
			g.rollup.AvgDurationSeconds = g.durations / float64(g.timed)
		}
		rollups = append(rollups, g.rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		if rollups[i].Count != rollups[j].Count {
			return rollups[i].Count > rollups[j].Count
		}
		return rollups[i].Directory < rollups[j].Directory
	})
	return rollups
}

type accumulator struct {
	count      int
	duration   float64
	categories map[model.Category]int
	mediaTypes map[model.MediaType]int
}

func newAccumulator() *accumulator {
	return &accumulator{
		categories: make(map[model.Category]int),
		mediaTypes: make(map[model.MediaType]int),
	}
}

func (a *accumulator) add(doc *model.Document) {
	a.count++
	a.categories[categoryOf(doc)]++
	if doc.MediaType != "" {
		a.mediaTypes[doc.MediaType]++
	}
	if d, ok := doc.Duration(); ok {
		a.duration += d
	}
}

func (a *accumulator) summary() model.Summary {
	return model.Summary{
		DocumentCount:        a.count,
		TotalDurationSeconds: a.duration,
		TotalDurationHours:   math.Round(a.duration/3600*100) / 100,
		Categories:           a.categories,
		MediaTypes:           a.mediaTypes,
	}
}

// categoryOf reports unclassified documents under the fallback category.
func categoryOf(doc *model.Document) model.Category {
	if doc.Category == "" {
		return model.CategoryOther
	}
	return doc.Category
}
