package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"photogeoview/model"
)

// PhotoDB is the photo catalog: assembled records persisted so the map view
// can look photos up by position.
type PhotoDB interface {
	Connect(ctx context.Context, connectionString, databaseName, collectionName string) error
	Close(ctx context.Context) error
	SavePhoto(ctx context.Context, photo model.PhotoDB) (primitive.ObjectID, error)
	GetPhoto(ctx context.Context, id string) (*model.PhotoDB, error)
	SearchPhotosByLocation(ctx context.Context, lng, lat float64, distMeters int) ([]model.PhotoDB, error)
}

// MongoPhotoDB backs the catalog with a MongoDB collection carrying a
// 2dsphere index on the GeoJSON point.
type MongoPhotoDB struct {
	Log *zap.Logger

	mongoClient *mongo.Client
	collection  *mongo.Collection
}

func (db *MongoPhotoDB) Connect(ctx context.Context, connectionString, databaseName, collectionName string) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	db.mongoClient = client
	db.collection = client.Database(databaseName).Collection(collectionName)

	// The $near query requires a geospatial index.
	_, err = db.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "lonlat", Value: "2dsphere"}},
	})
	if err != nil {
		return err
	}

	db.Log.Info("connected to MongoDB",
		zap.String("database", databaseName),
		zap.String("collection", collectionName),
	)
	return nil
}

func (db *MongoPhotoDB) Close(ctx context.Context) error {
	if db.mongoClient == nil {
		return nil
	}
	if err := db.mongoClient.Disconnect(ctx); err != nil {
		return err
	}
	db.Log.Info("disconnected from MongoDB")
	return nil
}

func (db *MongoPhotoDB) SavePhoto(ctx context.Context, photo model.PhotoDB) (primitive.ObjectID, error) {
	res, err := db.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	db.Log.Info("photo cataloged",
		zap.String("path", photo.FilePath),
		zap.String("id", id.Hex()),
	)
	return id, nil
}

func (db *MongoPhotoDB) GetPhoto(ctx context.Context, id string) (*model.PhotoDB, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var photo model.PhotoDB
	filter := bson.D{{Key: "_id", Value: oid}}
	if err := db.collection.FindOne(ctx, filter).Decode(&photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (db *MongoPhotoDB) SearchPhotosByLocation(ctx context.Context, lng, lat float64, distMeters int) ([]model.PhotoDB, error) {
	point := model.GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}

	filter := bson.D{
		{Key: "lonlat", Value: bson.D{
			{Key: "$near", Value: bson.D{
				{Key: "$geometry", Value: point},
				{Key: "$maxDistance", Value: distMeters},
			}},
		}},
	}

	cursor, err := db.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var photos []model.PhotoDB
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}
