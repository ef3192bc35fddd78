package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/waktunyapuasa/puasa/internal/model"
)

const (
	mongoCheckinCollection = "fastCheckins"
	mongoCheckinIndexName  = "by_year_date"
)

// MongoCheckinRepository keeps check-ins in a shared document database.
// A unique compound index on (year, dateISO) makes InsertOne the atomic
// check-and-insert.
type MongoCheckinRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoCheckinRepository(ctx context.Context, uri, database string) (*MongoCheckinRepository, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection uri is empty")
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()

	err = client.Ping(pingCtx, nil)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	repo := &MongoCheckinRepository{
		client: client,
		coll:   client.Database(database).Collection(mongoCheckinCollection),
	}

	err = repo.ensureIndexes(ctx)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("mongo checkin store connected", "database", database, "collection", mongoCheckinCollection)
	return repo, nil
}

var mongoCheckinIndexKeys = []string{"year", "dateISO"}

// ensureIndexes fails when an index of the same name exists with a
// different spec, or when no unique index on (year, dateISO) is in place
// afterwards. InsertIfAbsent is only atomic with that index.
func (r *MongoCheckinRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "year", Value: 1},
			{Key: "dateISO", Value: 1},
		},
		Options: options.Index().SetName(mongoCheckinIndexName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create checkin index %s: %w", mongoCheckinIndexName, err)
	}

	specs, err := r.coll.Indexes().ListSpecifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to list checkin indexes: %w", err)
	}
	return checkUniqueCheckinIndex(specs)
}

func checkUniqueCheckinIndex(specs []*mongo.IndexSpecification) error {
	for _, spec := range specs {
		if spec.Unique == nil || !*spec.Unique {
			continue
		}
		keys, err := indexKeyNames(spec.KeysDocument)
		if err != nil {
			return fmt.Errorf("index %s: %w", spec.Name, err)
		}
		slices.Sort(keys)
		if slices.Equal(keys, []string{"dateISO", "year"}) {
			return nil
		}
	}
	return fmt.Errorf("no unique index on %s(%s)", mongoCheckinCollection, strings.Join(mongoCheckinIndexKeys, ", "))
}

func indexKeyNames(doc bson.Raw) ([]string, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(elems))
	for _, elem := range elems {
		names = append(names, elem.Key())
	}
	return names, nil
}

func (r *MongoCheckinRepository) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	checkin := &model.Checkin{}
	err := r.coll.FindOne(ctx, bson.M{"year": year, "dateISO": dateISO}).Decode(checkin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCheckinNotFound
	}
	if err != nil {
		return nil, err
	}
	return checkin, nil
}

func (r *MongoCheckinRepository) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	opts := options.Find().SetSort(bson.D{{Key: "dateISO", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"year": year}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkins []*model.Checkin
	err = cursor.All(ctx, &checkins)
	if err != nil {
		return nil, err
	}
	return checkins, nil
}

func (r *MongoCheckinRepository) InsertIfAbsent(ctx context.Context, checkin *model.Checkin) error {
	_, err := r.coll.InsertOne(ctx, checkin)
	if mongo.IsDuplicateKeyError(err) {
		return ErrCheckinExists
	}
	return err
}

func (r *MongoCheckinRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
