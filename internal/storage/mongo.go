package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/starkadvisor/newshound/internal/config"
	"github.com/starkadvisor/newshound/internal/types"
)

// MongoStore persists articles and checkpoints in MongoDB.
type MongoStore struct {
	client   *mongo.Client
	news     *mongo.Collection
	metadata *mongo.Collection
	logger   *slog.Logger
}

// NewMongoStore connects to MongoDB and pings it so a bad URI fails
// fast instead of at the first insert.
func NewMongoStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetSocketTimeout(cfg.SocketTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, &types.StorageError{Op: "connect", Err: err}
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, &types.StorageError{Op: "ping", Err: err}
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:   client,
		news:     db.Collection(cfg.NewsCollection),
		metadata: db.Collection(cfg.MetadataCollection),
		logger:   logger.With("component", "mongo_store"),
	}

	s.logger.Info("mongodb connected",
		"database", cfg.Database,
		"news", cfg.NewsCollection,
		"metadata", cfg.MetadataCollection,
	)
	return s, nil
}

// EnsureIndexes creates the query indexes. Safe to call repeatedly.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	newsIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "source", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	if _, err := s.news.Indexes().CreateMany(ctx, newsIndexes); err != nil {
		return &types.StorageError{Op: "ensure news indexes", Err: err}
	}

	keyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.metadata.Indexes().CreateOne(ctx, keyIndex); err != nil {
		return &types.StorageError{Op: "ensure metadata index", Err: err}
	}

	s.logger.Debug("indexes ensured")
	return nil
}

// InsertArticles persists a batch.
func (s *MongoStore) InsertArticles(ctx context.Context, articles []types.Article) error {
	if len(articles) == 0 {
		return nil
	}

	docs := make([]any, len(articles))
	for i := range articles {
		docs[i] = articles[i]
	}

	res, err := s.news.InsertMany(ctx, docs)
	if err != nil {
		return &types.StorageError{Op: "insert articles", Err: err}
	}

	s.logger.Info("articles stored", "count", len(res.InsertedIDs))
	return nil
}

// QueryArticles returns stored articles matching the filter, newest
// first.
func (s *MongoStore) QueryArticles(ctx context.Context, q types.NewsQuery) ([]types.Article, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if len(q.Sources) > 0 {
		filter["source"] = bson.M{"$in": q.Sources}
	}

	dateFilter := bson.M{}
	if !q.StartDate.IsZero() {
		dateFilter["$gte"] = q.StartDate
	}
	if !q.EndDate.IsZero() {
		dateFilter["$lte"] = q.EndDate
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if q.Limit > 0 {
		opts = opts.SetLimit(q.Limit)
	}

	cursor, err := s.news.Find(ctx, filter, opts)
	if err != nil {
		return nil, &types.StorageError{Op: "query articles", Err: err}
	}
	defer cursor.Close(ctx)

	var articles []types.Article
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, &types.StorageError{Op: "decode articles", Err: err}
	}
	return articles, nil
}

// UniqueSources lists distinct source names across stored articles.
func (s *MongoStore) UniqueSources(ctx context.Context) ([]string, error) {
	values, err := s.news.Distinct(ctx, "source", bson.M{})
	if err != nil {
		return nil, &types.StorageError{Op: "distinct sources", Err: err}
	}

	sources := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok && name != "" {
			sources = append(sources, name)
		}
	}
	return sources, nil
}

// GetCheckpoint reads a named checkpoint.
func (s *MongoStore) GetCheckpoint(ctx context.Context, key string) (time.Time, error) {
	var cp types.Checkpoint
	err := s.metadata.FindOne(ctx, bson.M{"key": key}).Decode(&cp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, fmt.Errorf("checkpoint %q: %w", key, types.ErrNotFound)
	}
	if err != nil {
		return time.Time{}, &types.StorageError{Op: "get checkpoint", Err: err}
	}
	return cp.Value.UTC(), nil
}

// SetCheckpoint upserts a named checkpoint.
func (s *MongoStore) SetCheckpoint(ctx context.Context, key string, value time.Time) error {
	update := bson.M{"$set": bson.M{
		"value":      value.UTC(),
		"updated_at": time.Now().UTC(),
	}}
	_, err := s.metadata.UpdateOne(ctx, bson.M{"key": key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return &types.StorageError{Op: "set checkpoint", Err: err}
	}

	s.logger.Debug("checkpoint updated", "key", key, "value", value.Format(types.DateLayout))
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
