package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"scrapbook/internal/domain"
)

const mongoTimeout = 10 * time.Second

type scrapbookDoc struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	DocumentJSON string    `bson:"document_json"`
	PageCount    int       `bson:"page_count"`
	ItemCount    int       `bson:"item_count"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type revisionDoc struct {
	ID           string    `bson:"_id"`
	ScrapbookID  string    `bson:"scrapbook_id"`
	Label        string    `bson:"label"`
	DocumentJSON string    `bson:"document_json"`
	CreatedAt    time.Time `bson:"created_at"`
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// MongoLibrary stores scrapbooks, revisions and settings as documents in
// three collections of one database.
type MongoLibrary struct {
	client      *mongo.Client
	scrapbooks  *mongo.Collection
	revisions   *mongo.Collection
	settingsCol *mongo.Collection
}

func OpenMongoLibrary(uri, database string) (*MongoLibrary, error) {
	if database == "" {
		database = "scrapbook"
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	lib := &MongoLibrary{
		client:      client,
		scrapbooks:  db.Collection("scrapbooks"),
		revisions:   db.Collection("revisions"),
		settingsCol: db.Collection("settings"),
	}
	_, err = lib.revisions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "scrapbook_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create revision index: %w", err)
	}
	return lib, nil
}

func (l *MongoLibrary) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return l.client.Disconnect(ctx)
}

func (l *MongoLibrary) CreateScrapbook(sb *domain.Scrapbook) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	now := time.Now().UTC()
	sb.CreatedAt = now
	sb.UpdatedAt = now
	if _, err := l.scrapbooks.InsertOne(ctx, toScrapbookDoc(sb)); err != nil {
		return fmt.Errorf("create scrapbook: %w", err)
	}
	return nil
}

func (l *MongoLibrary) GetScrapbook(id string) (*domain.Scrapbook, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var doc scrapbookDoc
	if err := l.scrapbooks.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mongoNotFound(err, "get scrapbook")
	}
	return fromScrapbookDoc(doc), nil
}

func (l *MongoLibrary) ListScrapbooks() ([]domain.Scrapbook, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"document_json": 0})
	cursor, err := l.scrapbooks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list scrapbooks: %w", err)
	}
	var docs []scrapbookDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode scrapbooks: %w", err)
	}
	books := make([]domain.Scrapbook, 0, len(docs))
	for _, d := range docs {
		books = append(books, *fromScrapbookDoc(d))
	}
	return books, nil
}

func (l *MongoLibrary) UpdateScrapbook(sb *domain.Scrapbook) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	sb.UpdatedAt = time.Now().UTC()
	res, err := l.scrapbooks.UpdateOne(ctx, bson.M{"_id": sb.ID}, bson.M{"$set": bson.M{
		"title":         sb.Title,
		"document_json": sb.DocumentJSON,
		"page_count":    sb.PageCount,
		"item_count":    sb.ItemCount,
		"updated_at":    sb.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update scrapbook: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update scrapbook %s: %w", sb.ID, ErrNotFound)
	}
	return nil
}

func (l *MongoLibrary) DeleteScrapbook(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	if _, err := l.revisions.DeleteMany(ctx, bson.M{"scrapbook_id": id}); err != nil {
		return fmt.Errorf("delete revisions: %w", err)
	}
	res, err := l.scrapbooks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete scrapbook: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete scrapbook %s: %w", id, ErrNotFound)
	}
	return nil
}

func (l *MongoLibrary) PushRevision(rev *domain.Revision, keep int) error {
	if keep <= 0 {
		keep = MaxRevisions
	}
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	_, err := l.revisions.InsertOne(ctx, revisionDoc{
		ID:           rev.ID,
		ScrapbookID:  rev.ScrapbookID,
		Label:        rev.Label,
		DocumentJSON: rev.DocumentJSON,
		CreatedAt:    rev.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}

	// Everything past the newest keep entries goes.
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"_id": 1})
	cursor, err := l.revisions.Find(ctx, bson.M{"scrapbook_id": rev.ScrapbookID}, opts)
	if err != nil {
		return fmt.Errorf("select stale revisions: %w", err)
	}
	var stale []revisionDoc
	if err := cursor.All(ctx, &stale); err != nil {
		return fmt.Errorf("decode stale revisions: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	ids := make([]string, len(stale))
	for i, d := range stale {
		ids[i] = d.ID
	}
	if _, err := l.revisions.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	return nil
}

func (l *MongoLibrary) ListRevisions(scrapbookID string) ([]domain.Revision, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"document_json": 0})
	cursor, err := l.revisions.Find(ctx, bson.M{"scrapbook_id": scrapbookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	var docs []revisionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode revisions: %w", err)
	}
	revs := make([]domain.Revision, 0, len(docs))
	for _, d := range docs {
		revs = append(revs, domain.Revision{ID: d.ID, ScrapbookID: d.ScrapbookID, Label: d.Label, CreatedAt: d.CreatedAt})
	}
	return revs, nil
}

func (l *MongoLibrary) GetRevision(id string) (*domain.Revision, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var d revisionDoc
	if err := l.revisions.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mongoNotFound(err, "get revision")
	}
	return &domain.Revision{
		ID:           d.ID,
		ScrapbookID:  d.ScrapbookID,
		Label:        d.Label,
		DocumentJSON: d.DocumentJSON,
		CreatedAt:    d.CreatedAt,
	}, nil
}

func (l *MongoLibrary) GetSetting(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var d settingDoc
	err := l.settingsCol.FindOne(ctx, bson.M{"_id": key}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return d.Value, true, nil
}

func (l *MongoLibrary) SetSetting(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	_, err := l.settingsCol.ReplaceOne(ctx, bson.M{"_id": key}, settingDoc{Key: key, Value: value},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

func toScrapbookDoc(sb *domain.Scrapbook) scrapbookDoc {
	return scrapbookDoc{
		ID:           sb.ID,
		Title:        sb.Title,
		DocumentJSON: sb.DocumentJSON,
		PageCount:    sb.PageCount,
		ItemCount:    sb.ItemCount,
		CreatedAt:    sb.CreatedAt,
		UpdatedAt:    sb.UpdatedAt,
	}
}

func fromScrapbookDoc(d scrapbookDoc) *domain.Scrapbook {
	return &domain.Scrapbook{
		ID:           d.ID,
		Title:        d.Title,
		DocumentJSON: d.DocumentJSON,
		PageCount:    d.PageCount,
		ItemCount:    d.ItemCount,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func mongoNotFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
