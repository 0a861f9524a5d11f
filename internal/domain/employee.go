package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmployeeCollection is the document collection employees are stored in.
const EmployeeCollection = "employees"

// Employee is the target of a department's manager reference.
// Departments only look employees up; they never own them.
type Employee struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Position  string             `bson:"position,omitempty" json:"position,omitempty"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
