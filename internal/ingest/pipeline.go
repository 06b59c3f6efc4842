package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/calluna-labs/corpus/internal/chunk"
	"github.com/calluna-labs/corpus/internal/config"
	"github.com/calluna-labs/corpus/internal/sanitize"
	"github.com/calluna-labs/corpus/internal/vectorstore"
)

// Result summarizes one populated collection.
type Result struct {
	// Collection is the normalized collection name.
	Collection string

	// Documents is the number of member documents.
	Documents int

	// Chunks is the number of records submitted.
	Chunks int
}

// Pipeline runs document ingestion against a vector store.
type Pipeline struct {
	store  vectorstore.Store
	config config.IngestConfig
	logger *zap.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(store vectorstore.Store, cfg config.IngestConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{store: store, config: cfg, logger: logger}
}

// loadDocuments discovers and reads all documents in the data
// directory. Unreadable files are logged and skipped. When nothing is
// found, the example document is synthesized so the run has input.
func (p *Pipeline) loadDocuments() ([]Document, error) {
	paths, err := DiscoverFiles(p.config.DataDir, p.config.Extensions)
	if err != nil {
		return nil, err
	}
	p.logger.Info("discovered files",
		zap.Int("count", len(paths)),
		zap.String("dir", p.config.DataDir),
	)

	documents := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := LoadDocument(path)
		if err != nil {
			p.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		p.logger.Info("loaded document",
			zap.String("name", doc.Name),
			zap.Int("word_count", doc.WordCount),
		)
		documents = append(documents, doc)
	}

	if len(documents) == 0 {
		p.logger.Warn("no documents found, synthesizing example document")
		path, err := WriteExample(p.config.DataDir)
		if err != nil {
			return nil, err
		}
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, nil
}

// ProcessOne ingests a single document into its own collection. When
// target is non-empty, the first document whose name or ID contains it
// (case-insensitive) is chosen; otherwise, and when no document
// matches, the first discovered document is used.
func (p *Pipeline) ProcessOne(ctx context.Context, target string) (*Result, error) {
	documents, err := p.loadDocuments()
	if err != nil {
		return nil, err
	}

	doc := documents[0]
	if target != "" {
		needle := strings.ToLower(target)
		found := false
		for _, d := range documents {
			if strings.Contains(strings.ToLower(d.Name), needle) ||
				strings.Contains(strings.ToLower(d.ID), needle) {
				doc = d
				found = true
				break
			}
		}
		if !found {
			p.logger.Warn("no document matches target, using first",
				zap.String("target", target),
				zap.String("using", doc.Name),
			)
		}
	}

	result, err := p.ingestGroup(ctx, Group{Name: doc.ID, Documents: []Document{doc}})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessAll ingests every document, partitioned into collections by
// the word-count threshold policy.
func (p *Pipeline) ProcessAll(ctx context.Context) ([]Result, error) {
	documents, err := p.loadDocuments()
	if err != nil {
		return nil, err
	}

	groups := Assign(documents, p.config.MinWords)
	p.logger.Info("assigned collections",
		zap.Int("documents", len(documents)),
		zap.Int("collections", len(groups)),
		zap.Int("min_words", p.config.MinWords),
	)

	results := make([]Result, 0, len(groups))
	for _, group := range groups {
		result, err := p.ingestGroup(ctx, group)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// ingestGroup chunks the group's documents and submits all records to
// the group's collection in one batch. Record IDs carry a single
// counter spanning the whole group; chunk_index in metadata resets per
// document.
func (p *Pipeline) ingestGroup(ctx context.Context, group Group) (Result, error) {
	name := sanitize.CollectionName(group.Name)
	if name != group.Name {
		p.logger.Info("normalized collection name",
			zap.String("from", group.Name),
			zap.String("to", name),
		)
	}

	col, err := p.store.GetOrCreateCollection(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("collection %s: %w", name, err)
	}

	var (
		texts     []string
		ids       []string
		metadatas []map[string]any
	)
	counter := 0
	for _, doc := range group.Documents {
		chunks := chunk.Split(doc.Content, p.config.ChunkSize)
		p.logger.Info("chunked document",
			zap.String("name", doc.Name),
			zap.Int("chunks", len(chunks)),
		)

		for i, text := range chunks {
			texts = append(texts, text)
			ids = append(ids, fmt.Sprintf("chunk_%d", counter))
			metadatas = append(metadatas, map[string]any{
				"source":          doc.Name,
				"chunk_id":        counter,
				"file_id":         doc.ID,
				"chunk_index":     i,
				"collection_name": name,
			})
			counter++
		}
	}

	if len(texts) == 0 {
		p.logger.Warn("no chunks to submit", zap.String("collection", name))
		return Result{Collection: name, Documents: len(group.Documents)}, nil
	}

	if err := col.Add(ctx, texts, ids, metadatas); err != nil {
		return Result{}, fmt.Errorf("adding %d records to %s: %w", len(texts), name, err)
	}
	p.logger.Info("submitted records",
		zap.String("collection", name),
		zap.Int("chunks", len(texts)),
	)

	return Result{Collection: name, Documents: len(group.Documents), Chunks: len(texts)}, nil
}

// Query runs a similarity query against a collection. The raw name is
// normalized the same way ingestion normalizes it.
func (p *Pipeline) Query(ctx context.Context, rawName string, queryTexts []string, nResults int) (*vectorstore.QueryResult, error) {
	if nResults <= 0 {
		nResults = p.config.NResults
	}

	name := sanitize.CollectionName(rawName)
	col, err := p.store.GetOrCreateCollection(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}
	return col.Query(ctx, queryTexts, nResults)
}
