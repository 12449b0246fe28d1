package chroma

import (
	"context"
	"fmt"
	"os"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
)

// Options configures the chroma client
type Options struct {
	APIKey       string
	Tenant       string
	Database     string
	GeminiAPIKey string
}

// Client stores message embeddings for semantic search over ingested
// messages
type Client struct {
	client     chroma.Client
	collection chroma.Collection
}

// NewClient creates a chroma client bound to the job-messages collection
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("chroma API key is required")
	}
	if opts.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", opts.GeminiAPIKey)
	}

	embedFunc, err := gemini.NewGeminiEmbeddingFunction(
		gemini.WithEnvAPIKey(),
		gemini.WithDefaultModel("text-embedding-004"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding function: %w", err)
	}

	var client chroma.Client
	if opts.Database != "" && opts.Tenant != "" {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(opts.APIKey),
			chroma.WithDatabaseAndTenant(opts.Database, opts.Tenant),
		)
	} else {
		client, err = chroma.NewHTTPClient(
			chroma.WithBaseURL(chroma.ChromaCloudEndpoint),
			chroma.WithCloudAPIKey(opts.APIKey),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	collection, err := client.GetOrCreateCollection(
		context.Background(),
		"job-messages",
		chroma.WithEmbeddingFunctionCreate(embedFunc),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	return &Client{client: client, collection: collection}, nil
}

// UpsertMessageEmbedding stores or refreshes one message embedding, keyed by
// the message ID so re-ingestion cannot duplicate documents
func (c *Client) UpsertMessageEmbedding(ctx context.Context, messageID, groupID, text string) error {
	if len(text) > 10000 {
		// Embedding models have token limits
		text = text[:10000]
	}

	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		"group_id": groupID,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	err = c.collection.Upsert(
		ctx,
		chroma.WithIDs(chroma.DocumentID(messageID)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(text),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert message embedding: %w", err)
	}
	return nil
}

// SemanticSearch returns the IDs of the messages closest to the query
func (c *Client) SemanticSearch(ctx context.Context, query string, limit int) ([]string, error) {
	results, err := c.collection.Query(
		ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return nil, nil
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(idGroups[0]))
	for _, id := range idGroups[0] {
		ids = append(ids, string(id))
	}
	return ids, nil
}
