package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

const (
	collectionDepartments = "departments"
	collectionPositions   = "positions"
)

type DepartmentRepository struct {
	col *mongo.Collection
}

func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	return &DepartmentRepository{col: db.Collection(collectionDepartments)}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *domain.Department) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("insert department: %w", mapErr(err))
	}
	return nil
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d domain.Department
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, mapErr(err)
	}
	return &d, nil
}

// List returns every department ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]*domain.Department, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	departments := make([]*domain.Department, 0)
	if err := cursor.All(ctx, &departments); err != nil {
		return nil, mapErr(err)
	}
	return departments, nil
}

func (r *DepartmentRepository) Replace(ctx context.Context, d *domain.Department) error {
	return replaceByID(ctx, r.col, d.ID, d)
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

type PositionRepository struct {
	col *mongo.Collection
}

func NewPositionRepository(db *mongo.Database) *PositionRepository {
	return &PositionRepository{col: db.Collection(collectionPositions)}
}

func (r *PositionRepository) Create(ctx context.Context, p *domain.Position) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert position: %w", mapErr(err))
	}
	return nil
}

func (r *PositionRepository) FindByID(ctx context.Context, id string) (*domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Position
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// List returns every position ordered by title.
func (r *PositionRepository) List(ctx context.Context) ([]*domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	positions := make([]*domain.Position, 0)
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, mapErr(err)
	}
	return positions, nil
}

func (r *PositionRepository) Replace(ctx context.Context, p *domain.Position) error {
	return replaceByID(ctx, r.col, p.ID, p)
}

func (r *PositionRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mapErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
