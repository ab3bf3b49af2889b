package domain

import "strings"

// Department groups employees and drives department-scoped reads.
type Department struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

func (d *Department) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("Department name is required")
	}
	return nil
}

// Position is a job title an employee can be promoted into.
type Position struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Level       string `json:"level,omitempty" bson:"level,omitempty"`
}

func (p *Position) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return NewValidationError("Position title is required")
	}
	return nil
}
