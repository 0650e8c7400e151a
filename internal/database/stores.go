package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	bootcamprepo "github.com/devcamper/devcamper/backend/go-services/internal/bootcamps/repository"
	"github.com/devcamper/devcamper/backend/go-services/internal/config"
	courserepo "github.com/devcamper/devcamper/backend/go-services/internal/courses/repository"
	"github.com/devcamper/devcamper/backend/go-services/pkg/logger"
)

const (
	BootcampsCollection = "bootcamps"
	CoursesCollection   = "courses"

	connectAttempts = 5
)

// Stores holds the repositories the server and the seeder share.
type Stores struct {
	Bootcamps bootcamprepo.Repository
	Courses   courserepo.Repository
	client    *mongo.Client
}

// OpenStores connects to MongoDB and ensures indexes. With an empty URI the
// in-memory repositories are returned instead.
func OpenStores(ctx context.Context, cfg config.MongoDBConfig) (*Stores, error) {
	if cfg.URI == "" {
		logger.Warnf("MONGODB_URI not set, using in-memory repositories")
		return &Stores{Bootcamps: bootcamprepo.NewMemoryRepo(), Courses: courserepo.NewMemoryRepo()}, nil
	}
	client, err := ConnectWithRetry(ctx, cfg.URI, cfg.Timeout, connectAttempts)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	bootcamps := bootcamprepo.NewMongoRepo(db.Collection(BootcampsCollection))
	courses := courserepo.NewMongoRepo(db.Collection(CoursesCollection))

	ictx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := bootcamps.EnsureIndexes(ictx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := courses.EnsureIndexes(ictx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.Infof("connected to MongoDB database %s", cfg.Database)
	return &Stores{Bootcamps: bootcamps, Courses: courses, client: client}, nil
}

// Ping checks the database connection. Memory stores are always ready.
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

func (s *Stores) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
