package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/observability"
)

// Defaults for [OpenMongo].
const (
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "spancal"
	mongoCollection      = "runs"
)

// MongoStore keeps one document per run.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// OpenMongo connects to uri and uses the runs collection of database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{client: client, runs: client.Database(database).Collection(mongoCollection)}, nil
}

// Save upserts r by ID.
func (s *MongoStore) Save(ctx context.Context, r *Run) error {
	if err := checkRun(r); err != nil {
		return err
	}
	doc, err := bson.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSerialization, err, "encode run %s", r.ID)
	}
	_, err = s.runs.ReplaceOne(ctx, bson.M{"_id": r.ID}, bson.Raw(doc), options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save run %s", r.ID)
	}
	observability.Store().OnStoreSave(ctx, BackendMongo, len(doc))
	return nil
}

// Get returns the run with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := errors.ValidateRunID(id); err != nil {
		return nil, err
	}
	return s.one(ctx, id, s.runs.FindOne(ctx, bson.M{"_id": id}))
}

// Latest returns the most recently created run.
func (s *MongoStore) Latest(ctx context.Context) (*Run, error) {
	opts := options.FindOne().SetSort(newestFirst())
	return s.one(ctx, "", s.runs.FindOne(ctx, bson.D{}, opts))
}

func (s *MongoStore) one(ctx context.Context, id string, res *mongo.SingleResult) (*Run, error) {
	var r Run
	err := res.Decode(&r)
	if err == mongo.ErrNoDocuments {
		observability.Store().OnStoreMiss(ctx, BackendMongo)
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find run")
	}
	observability.Store().OnStoreHit(ctx, BackendMongo)
	return &r, nil
}

// List returns summaries of all runs, newest first. Counts are computed by
// the server.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.runs.Aggregate(ctx, summaryPipeline())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list runs")
	}
	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode runs")
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

func summaryPipeline() mongo.Pipeline {
	count := func(field string) bson.D {
		return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{field, bson.A{}}}}}}
	}
	return mongo.Pipeline{
		{{Key: "$sort", Value: newestFirst()}},
		{{Key: "$project", Value: bson.D{
			{Key: "created_at", Value: 1},
			{Key: "monitor_count", Value: count("$monitors")},
			{Key: "pair_count", Value: count("$results")},
		}}},
	}
}

var _ Store = (*MongoStore)(nil)
