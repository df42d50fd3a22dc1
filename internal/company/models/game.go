// Package models defines the domain models of the game catalog:
// the Game record and the calendar Date it is released on.
package models

import (
	"github.com/shopspring/decimal"
)

// Game describes a single product of a company.
// It carries values only; the catalog enforces every constraint at admission.
type Game struct {
	// Code identifies the game. Codes are not required to be unique.
	Code string `json:"code" yaml:"code"`
	// Name is the game's title.
	Name string `json:"name" yaml:"name"`
	// Genre is a free-form genre label.
	Genre string `json:"genre" yaml:"genre"`
	// Price must be strictly positive. Nil means missing.
	Price *decimal.Decimal `json:"price,omitempty" yaml:"price,omitempty"`
	// Rating must lie in [0, 5]. Nil means missing.
	Rating *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	// ReleaseDate must not be in the future. Nil means missing.
	ReleaseDate *Date `json:"release_date,omitempty" yaml:"release_date,omitempty"`
}
