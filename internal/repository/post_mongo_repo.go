package repository

import (
	"Bulletin/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// postDocument mongo 中的帖子文档
type postDocument struct {
	ID         string    `bson:"_id"`
	Title      string    `bson:"title"`
	Content    string    `bson:"content"`
	AuthorID   string    `bson:"author_id"`
	AuthorName string    `bson:"author_name"`
	CreatedAt  time.Time `bson:"created_at"`
	Views      int64     `bson:"views"`
}

type mongoPostRepo struct {
	col *mongo.Collection
}

// NewMongoPostRepo 自托管 MongoDB 仓储
func NewMongoPostRepo(db *mongo.Database, collection string) PostRepo {
	return &mongoPostRepo{col: db.Collection(collection)}
}

func (s *mongoPostRepo) ListAll(ctx context.Context) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(docs))
	if err = copier.Copy(&posts, &docs); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *mongoPostRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var doc postDocument
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	var post model.Post
	if err = copier.Copy(&post, &doc); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *mongoPostRepo) IncrementViews(ctx context.Context, id string, newValue int64) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"views": newValue}})
}

func (s *mongoPostRepo) AddViews(ctx context.Context, id string, delta int64) error {
	return s.updateByID(ctx, id, bson.M{"$inc": bson.M{"views": delta}})
}

func (s *mongoPostRepo) Create(ctx context.Context, title, content, authorID, authorName string) (*model.Post, error) {
	doc := postDocument{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", ErrPostRejected, err)
		}
		return nil, err
	}
	var post model.Post
	if err := copier.Copy(&post, &doc); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *mongoPostRepo) Update(ctx context.Context, id, title, content string) error {
	return s.updateByID(ctx, id, bson.M{"$set": bson.M{"title": title, "content": content}})
}

func (s *mongoPostRepo) Remove(ctx context.Context, id string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *mongoPostRepo) updateByID(ctx context.Context, id string, update bson.M) error {
	result, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
