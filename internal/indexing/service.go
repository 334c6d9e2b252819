// Package indexing enriches incoming documents before they are stored and indexed:
// keyword derivation, classification and an optional context narrative.
package indexing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-content-engine/config"
	"github.com/gcbaptista/go-content-engine/internal/classify"
	"github.com/gcbaptista/go-content-engine/internal/keywords"
	"github.com/gcbaptista/go-content-engine/internal/logging"
	"github.com/gcbaptista/go-content-engine/internal/tokenizer"
	"github.com/gcbaptista/go-content-engine/model"
)

// Outcome is the per-document result of enrichment: either an enriched document or the reason it was skipped.
type Outcome struct {
	Document model.Document
	Err      error
}

// Skipped reports whether the document was left out.
func (o Outcome) Skipped() bool {
	return o.Err != nil
}

// Service enriches documents. It holds no per-call state and is safe for concurrent use.
type Service struct {
	extractor       *keywords.Extractor
	classifier      *classify.Classifier
	maxKeywords     int
	generateContext bool
	workers         int
	logger          *slog.Logger
	now             func() time.Time
}

// NewService creates an enrichment Service from the engine settings.
func NewService(settings config.EngineSettings, logger *slog.Logger) *Service {
	normalizer := tokenizer.NewNormalizer(settings.Stopwords, settings.MinTokenLength)
	workers := settings.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		extractor:       keywords.NewExtractor(normalizer, settings.MinKeywordTextLength, settings.MaxKeywords),
		classifier:      classify.NewFromSettings(settings),
		maxKeywords:     settings.MaxKeywords,
		generateContext: settings.GenerateContext,
		workers:         workers,
		logger:          logging.OrDiscard(logger),
		now:             time.Now,
	}
}

// Classifier returns the classifier used for enrichment.
func (s *Service) Classifier() *classify.Classifier {
	return s.classifier
}

// Extractor returns the keyword extractor used for enrichment.
func (s *Service) Extractor() *keywords.Extractor {
	return s.extractor
}

// Enrich validates a document, derives its keywords when none were supplied, classifies it and
// fills the bookkeeping fields. The input document is not modified.
func (s *Service) Enrich(doc model.Document) Outcome {
	if err := doc.Validate(); err != nil {
		return Outcome{Document: doc, Err: err}
	}

	enriched := doc.Clone()
	enriched.NormalizeKeywords()
	if len(enriched.Keywords) == 0 {
		enriched.Keywords = s.extractor.Extract(enriched.PrimaryText, s.maxKeywords)
		enriched.KeywordsDerived = true
	}

	classification := s.classifier.Classify(enriched.PrimaryText, enriched.Signals)
	enriched.Category = classification.Category
	enriched.Confidence = classification.Confidence
	enriched.CategoryScores = classification.Scores

	if s.generateContext && strings.TrimSpace(enriched.ContextText) == "" {
		enriched.ContextText = ContextNarrative(enriched.PrimaryText, enriched.Signals, classification)
		enriched.ContextDerived = true
	}

	enriched.DeriveDirectory()
	now := s.now()
	if enriched.CreatedAt.IsZero() {
		enriched.CreatedAt = now
	}
	enriched.ProcessedAt = &now

	return Outcome{Document: enriched}
}

// EnrichBatch enriches docs on a bounded worker pool. Outcomes are returned in input order.
// A malformed document is recorded in the report and never aborts the batch; only context
// cancellation does.
func (s *Service) EnrichBatch(ctx context.Context, docs []model.Document) ([]Outcome, model.BatchReport, error) {
	outcomes := make([]Outcome, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.Enrich(docs[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, model.BatchReport{}, fmt.Errorf("enrichment interrupted: %w", err)
	}

	report := model.BatchReport{Total: len(docs)}
	for _, o := range outcomes {
		if o.Skipped() {
			report.Skip(o.Document.ID, o.Err.Error())
			s.logger.Warn("skipping malformed document", "document_id", o.Document.ID, "error", o.Err)
			continue
		}
		report.Processed++
	}
	return outcomes, report, nil
}

const transcriptSummaryWords = 100

// ContextNarrative builds a short searchable description from the transcript, the auxiliary
// signals and the classification, joined with " | ".
func ContextNarrative(transcript string, signals *model.AuxiliarySignals, classification model.Classification) string {
	var parts []string

	if words := strings.Fields(transcript); len(words) > 0 {
		summary := strings.TrimSpace(transcript)
		if len(words) > transcriptSummaryWords {
			summary = strings.Join(words[:transcriptSummaryWords], " ") + "..."
		}
		parts = append(parts, "Transcrição: "+summary)
	}

	if signals != nil {
		if signals.HasFaces {
			parts = append(parts, "Vídeo contém pessoas/faces")
		}
		switch {
		case signals.AvgBrightness > 150:
			parts = append(parts, "Vídeo com boa iluminação")
		case signals.AvgBrightness < 50:
			parts = append(parts, "Vídeo com pouca iluminação")
		}
		switch {
		case signals.SceneChanges > 5:
			parts = append(parts, "Vídeo dinâmico com várias cenas")
		case signals.SceneChanges < 2:
			parts = append(parts, "Vídeo estático ou poucas cenas")
		}
	}

	if classification.Category != "" {
		parts = append(parts, fmt.Sprintf("Classificado como: %s (confiança: %.2f)", classification.Category, classification.Confidence))
	}

	return strings.Join(parts, " | ")
}
