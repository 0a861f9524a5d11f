package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
)

// EmployeeRepository looks employees up for department manager references.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Employee, error)
}

type employeeRepository struct {
	coll *mongo.Collection
}

// NewEmployeeRepository builds the repository.
func NewEmployeeRepository(db *mongo.Database) EmployeeRepository {
	return &employeeRepository{coll: db.Collection(domain.EmployeeCollection)}
}

func (r *employeeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Employee, error) {
	opts := options.FindOne().SetProjection(bson.M{
		"firstName": 1,
		"lastName":  1,
		"email":     1,
		"position":  1,
	})

	var emp domain.Employee
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &emp, nil
}
