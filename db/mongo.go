package db

import (
	"context"
	"fmt"
	"time"

	"sentioai/models"
	"sentioai/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoOpTimeout = 10 * time.Second

type MongoClient struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoClient(uri string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to MongoDB: %s", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("error pinging MongoDB: %s", err)
	}

	database := client.Database(utils.GetEnv("MONGO_DB", "sentio"))
	return &MongoClient{
		client:     client,
		collection: database.Collection("journal_entries"),
	}, nil
}

func (m *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoClient) InsertEntry(entry *models.JournalEntry) error {
	normalizeEntry(entry)

	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	if _, err := m.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error storing journal entry: %s", err)
	}
	return nil
}

func (m *MongoClient) GetAllEntries() ([]models.JournalEntry, error) {
	return m.findEntries(bson.D{})
}

func (m *MongoClient) GetEntriesByEmotion(emotion string) ([]models.JournalEntry, error) {
	return m.findEntries(bson.D{{Key: "emotion", Value: emotion}})
}

func (m *MongoClient) findEntries(filter bson.D) ([]models.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying journal entries: %s", err)
	}
	defer cursor.Close(ctx)

	var entries []models.JournalEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding journal entries: %s", err)
	}
	return entries, nil
}
