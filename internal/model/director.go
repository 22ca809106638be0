package model

import "strings"

// Director is a person credited with directing movies.
type Director struct {
	Base
	Name string `json:"name" db:"name" validate:"required,max=255"`
}

// DirectorFilter narrows a director listing.
type DirectorFilter struct {
	// Name matches case-insensitively anywhere in the director's name.
	Name string
}

// DirectorInput is the editable part of a director.
type DirectorInput struct {
	Name string `json:"name" form:"name"`
}

// Apply copies the input onto d.
func (in DirectorInput) Apply(d *Director) {
	d.Name = strings.TrimSpace(in.Name)
}
