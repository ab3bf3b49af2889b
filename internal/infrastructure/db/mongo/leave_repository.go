package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const collectionLeaves = "leaves"

type LeaveRepository struct {
	col *mongo.Collection
}

func NewLeaveRepository(db *mongo.Database) *LeaveRepository {
	return &LeaveRepository{col: db.Collection(collectionLeaves)}
}

func (r *LeaveRepository) Create(ctx context.Context, l *domain.Leave) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, l); err != nil {
		return fmt.Errorf("insert leave: %w", mapErr(err))
	}
	return nil
}

func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*domain.Leave, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Leave
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

// List returns matching requests, latest start date first.
func (r *LeaveRepository) List(ctx context.Context, f ports.LeaveFilter) ([]*domain.Leave, error) {
	filter, ok := leaveListFilter(f)
	if !ok {
		return []*domain.Leave{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	leaves := make([]*domain.Leave, 0)
	if err := cursor.All(ctx, &leaves); err != nil {
		return nil, mapErr(err)
	}
	return leaves, nil
}

// Transition is a single conditional update on {_id, status: tr.From}.
func (r *LeaveRepository) Transition(ctx context.Context, id string, tr domain.LeaveTransition) (*domain.Leave, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "status": tr.From}

	var l domain.Leave
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": leaveTransitionSet(tr)}, opts).Decode(&l); err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

func leaveListFilter(f ports.LeaveFilter) (bson.M, bool) {
	scope, ok := scopeFilter(f.Scope, "employee_id", "")
	if !ok {
		return nil, false
	}
	criteria := bson.M{}
	if f.EmployeeID != "" {
		criteria["employee_id"] = f.EmployeeID
	}
	if f.Status != "" {
		criteria["status"] = f.Status
	}
	start := bson.M{}
	if !f.StartFrom.IsZero() {
		start["$gte"] = f.StartFrom
	}
	if !f.StartTo.IsZero() {
		start["$lt"] = f.StartTo
	}
	if len(start) > 0 {
		criteria["start_date"] = start
	}
	return and(scope, criteria), true
}

// leaveTransitionSet mirrors domain.LeaveTransition.Apply as a $set document.
func leaveTransitionSet(tr domain.LeaveTransition) bson.M {
	set := bson.M{
		"status":      tr.To,
		"modified_at": tr.At,
	}
	switch tr.To {
	case domain.LeaveApproved:
		set["approved_by"], set["approved_at"] = tr.By, tr.At
		set["comments"] = tr.Note
	case domain.LeaveRejected:
		set["rejected_by"], set["rejected_at"] = tr.By, tr.At
		set["rejection_reason"] = tr.Note
	}
	return set
}
