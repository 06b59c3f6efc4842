package vectorstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// QdrantConfig holds configuration for the Qdrant gRPC client.
type QdrantConfig struct {
	// Host is the Qdrant server hostname or IP address.
	// Default: "localhost"
	Host string

	// Port is the Qdrant gRPC port (6334, not the 6333 HTTP port).
	Port int

	// VectorSize is the dimensionality of embeddings. Must match the
	// embedder's output dimension.
	VectorSize uint64

	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool

	// MaxMessageSize is the maximum gRPC message size in bytes.
	// Default: 50MB, large enough for full-document batches.
	MaxMessageSize int
}

// ApplyDefaults sets default values for unset fields.
func (c *QdrantConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.VectorSize == 0 {
		c.VectorSize = 384
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = 50 * 1024 * 1024
	}
}

// Validate validates the configuration.
func (c QdrantConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: host required", ErrInvalidConfig)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Port)
	}
	if c.VectorSize == 0 {
		return fmt.Errorf("%w: vector size required", ErrInvalidConfig)
	}
	return nil
}

// QdrantStore implements Store against an external Qdrant server using
// the native gRPC client.
type QdrantStore struct {
	client   *qdrant.Client
	embedder Embedder
	config   QdrantConfig
	logger   *zap.Logger
}

// NewQdrantStore creates a QdrantStore, connects and health-checks the
// server. A connection or health-check failure is reported as
// ErrConnectionFailed so callers can fall back to the stand-in.
func NewQdrantStore(config QdrantConfig, embedder Embedder, logger *zap.Logger) (*QdrantStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		UseTLS: config.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(config.MaxMessageSize),
				grpc.MaxCallSendMsgSize(config.MaxMessageSize),
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	store := &QdrantStore{
		client:   client,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.HealthCheck(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: health check: %v", ErrConnectionFailed, err)
	}

	logger.Info("qdrant store initialized",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.Uint64("vector_size", config.VectorSize),
	)

	return store, nil
}

// GetOrCreateCollection returns the named collection, creating it with
// cosine distance on first use.
func (s *QdrantStore) GetOrCreateCollection(ctx context.Context, name string) (Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("checking collection %s: %w", name, err)
	}
	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.config.VectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return nil, fmt.Errorf("creating collection %s: %w", name, err)
		}
		s.logger.Info("created qdrant collection", zap.String("collection", name))
	}

	return &qdrantCollection{name: name, store: s}, nil
}

// Close closes the gRPC connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// qdrantCollection implements Collection over a Qdrant collection.
type qdrantCollection struct {
	name  string
	store *QdrantStore
}

func (c *qdrantCollection) Name() string {
	return c.name
}

func (c *qdrantCollection) Add(ctx context.Context, documents []string, ids []string, metadatas []map[string]any) error {
	if err := validateBatch(documents, ids, metadatas); err != nil {
		return err
	}

	embeddings, err := c.store.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	points := make([]*qdrant.PointStruct, len(documents))
	for i := range documents {
		payload := map[string]any{
			"content": documents[i],
			"id":      ids[i],
		}
		for k, v := range metadatas[i] {
			payload[k] = v
		}

		// Qdrant point IDs must be UUIDs or integers; the record id is
		// preserved in the payload for retrieval.
		pointID := ids[i]
		if _, err := uuid.Parse(pointID); err != nil {
			pointID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(c.name+"/"+ids[i])).String()
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(pointID),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	if _, err := c.store.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.name,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("upserting points to %s: %w", c.name, err)
	}

	c.store.logger.Debug("upserted points to qdrant collection",
		zap.String("collection", c.name),
		zap.Int("count", len(points)),
	)
	return nil
}

func (c *qdrantCollection) Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error) {
	if nResults <= 0 {
		return nil, fmt.Errorf("nResults must be positive, got %d", nResults)
	}

	out := &QueryResult{
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		IDs:       make([][]string, len(queryTexts)),
		Distances: make([][]float32, len(queryTexts)),
	}

	for qi, text := range queryTexts {
		vector, err := c.store.embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		}

		hits, err := c.store.client.Query(ctx, &qdrant.QueryPoints{
			CollectionName: c.name,
			Query:          qdrant.NewQuery(vector...),
			Limit:          qdrant.PtrOf(uint64(nResults)),
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("querying collection %s: %w", c.name, err)
		}

		docs := make([]string, len(hits))
		metas := make([]map[string]any, len(hits))
		ids := make([]string, len(hits))
		dists := make([]float32, len(hits))
		for i, hit := range hits {
			meta := make(map[string]any)
			for k, v := range hit.Payload {
				switch val := v.Kind.(type) {
				case *qdrant.Value_StringValue:
					switch k {
					case "content":
						docs[i] = val.StringValue
					case "id":
						ids[i] = val.StringValue
					default:
						meta[k] = val.StringValue
					}
				case *qdrant.Value_IntegerValue:
					meta[k] = int(val.IntegerValue)
				case *qdrant.Value_DoubleValue:
					meta[k] = val.DoubleValue
				case *qdrant.Value_BoolValue:
					meta[k] = val.BoolValue
				}
			}
			metas[i] = meta
			// Cosine similarity score; report as distance.
			dists[i] = 1 - hit.Score
		}
		out.Documents[qi] = docs
		out.Metadatas[qi] = metas
		out.IDs[qi] = ids
		out.Distances[qi] = dists
	}

	return out, nil
}

func (c *qdrantCollection) Count(ctx context.Context) (int, error) {
	info, err := c.store.client.GetCollectionInfo(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("collection info for %s: %w", c.name, err)
	}
	return int(info.GetPointsCount()), nil
}
