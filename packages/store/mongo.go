package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultMongoDatabase is used when the connection string names no database.
const defaultMongoDatabase = "envrx"

// MongoStore keeps one document per entry, keyed by _id so the server
// enforces key uniqueness.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// OpenMongo connects to a MongoDB deployment and binds the store to the
// named collection. The database comes from the connection string path,
// falling back to "envrx".
func OpenMongo(ctx context.Context, uri, collection string) (*MongoStore, error) {
	collection, err := validateCollection(collection)
	if err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, connErr("connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, connErr("connect", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabaseName(uri)).Collection(collection),
		owned:  true,
	}, nil
}

// WrapMongo wraps an existing client. The caller keeps ownership; Close
// never disconnects it. An empty database name falls back to "envrx".
func WrapMongo(client *mongo.Client, database, collection string) (*MongoStore, error) {
	collection, err := validateCollection(collection)
	if err != nil {
		return nil, err
	}
	if database == "" {
		database = defaultMongoDatabase
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return defaultMongoDatabase
	}
	return name
}

func (s *MongoStore) Get(ctx context.Context, key string) (string, error) {
	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", connErr("get", err)
	}
	return entry.Value, nil
}

func (s *MongoStore) GetAll(ctx context.Context) (map[string]string, error) {
	cursor, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, connErr("get all", err)
	}

	var entries []mongoEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, connErr("get all", err)
	}

	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		result[entry.Key] = entry.Value
	}
	return result, nil
}

func (s *MongoStore) Set(ctx context.Context, key, value string) error {
	_, err := s.coll.InsertOne(ctx, mongoEntry{Key: key, Value: value})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("set %q: %w", key, ErrDuplicateKey)
	}
	if err != nil {
		return connErr("set", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, key, value string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{"value": value}})
	if err != nil {
		return connErr("update", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return connErr("delete", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(context.Background())
}
