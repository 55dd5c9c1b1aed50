// Package mongodb implements the repositories on MongoDB, with change streams as the change feed.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"portfolio/internal/database"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

const profileID = "profile"

// Store holds the collection handles for one database.
type Store struct {
	db       *database.Mongo
	projects *mongo.Collection
	skills   *mongo.Collection
	messages *mongo.Collection
	profile  *mongo.Collection
}

func New(db *database.Mongo) *Store {
	return &Store{
		db:       db,
		projects: db.Collection(string(repository.Projects)),
		skills:   db.Collection(string(repository.Skills)),
		messages: db.Collection(string(repository.Messages)),
		profile:  db.Collection(database.ProfileCollection),
	}
}

var _ repository.ChangeFeed = (*Store)(nil)

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Projects: &ProjectStore{coll: s.projects},
		Skills:   &SkillStore{coll: s.skills},
		Messages: &MessageStore{coll: s.messages},
		Profile:  &ProfileStore{coll: s.profile},
		Changes:  s,
		Ping:     s.db.Ping,
		Close:    s.db.Close,
	}
}

// Watch opens a change stream on the collection backing c.
// The stream is closed when ctx is done or the server ends it.
func (s *Store) Watch(ctx context.Context, c repository.Collection) (<-chan struct{}, error) {
	var (
		coll     *mongo.Collection
		pipeline = mongo.Pipeline{}
	)
	switch c {
	case repository.Projects:
		coll = s.projects
	case repository.Skills:
		coll = s.skills
	case repository.Messages:
		coll = s.messages
	case repository.Profile:
		coll = s.profile
		pipeline = mongo.Pipeline{{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: profileID}}}}}
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}

	cs, err := coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", c, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer func() { _ = cs.Close(context.Background()) }()
		for cs.Next(ctx) {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()
	return ch, nil
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func newID() string {
	return bson.NewObjectID().Hex()
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

// setFields runs a $set update and maps a missing document to ErrNotFound.
func setFields(ctx context.Context, coll *mongo.Collection, id string, fields map[string]any) error {
	if len(fields) == 0 {
		n, err := coll.CountDocuments(ctx, byID(id))
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	}
	res, err := coll.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: bson.M(fields)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProjectStore persists projects in the "projects" collection.
type ProjectStore struct {
	coll *mongo.Collection
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

func (r *ProjectStore) List(ctx context.Context) ([]model.Project, error) {
	return findAll[model.Project](ctx, r.coll, bson.D{}, newestFirst)
}

func (r *ProjectStore) ListByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	return findAll[model.Project](ctx, r.coll, bson.D{{Key: "category", Value: string(category)}}, newestFirst)
}

func (r *ProjectStore) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	doc := *p
	doc.ID = newID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ProjectStore) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	return setFields(ctx, r.coll, id, patch.Fields())
}

func (r *ProjectStore) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, byID(id))
	return err
}

// SkillStore persists skills in the "skills" collection.
type SkillStore struct {
	coll *mongo.Collection
}

var _ repository.SkillRepository = (*SkillStore)(nil)

func (r *SkillStore) List(ctx context.Context) ([]model.Skill, error) {
	return findAll[model.Skill](ctx, r.coll, bson.D{})
}

func (r *SkillStore) Create(ctx context.Context, s *model.Skill) (*model.Skill, error) {
	doc := *s
	doc.ID = newID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *SkillStore) Update(ctx context.Context, id string, patch model.SkillPatch) error {
	return setFields(ctx, r.coll, id, patch.Fields())
}

func (r *SkillStore) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, byID(id))
	return err
}

// MessageStore persists contact messages in the "messages" collection.
type MessageStore struct {
	coll *mongo.Collection
}

var _ repository.MessageRepository = (*MessageStore)(nil)

func (r *MessageStore) List(ctx context.Context) ([]model.Message, error) {
	return findAll[model.Message](ctx, r.coll, bson.D{}, newestFirst)
}

func (r *MessageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := r.coll.FindOne(ctx, byID(id)).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessageStore) Create(ctx context.Context, m *model.Message) (*model.Message, error) {
	doc := *m
	doc.ID = newID()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *MessageStore) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	return setFields(ctx, r.coll, id, map[string]any{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	})
}

func (r *MessageStore) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, byID(id))
	return err
}

// ProfileStore persists the singleton profile document.
type ProfileStore struct {
	coll *mongo.Collection
}

var _ repository.ProfileRepository = (*ProfileStore)(nil)

func (r *ProfileStore) Get(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := r.coll.FindOne(ctx, byID(profileID)).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileStore) Update(ctx context.Context, patch model.ProfilePatch) error {
	return setFields(ctx, r.coll, profileID, patch.Fields())
}

func (r *ProfileStore) Ensure(ctx context.Context, p model.Profile) error {
	_, err := r.coll.UpdateOne(ctx, byID(profileID),
		bson.D{{Key: "$setOnInsert", Value: p}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
