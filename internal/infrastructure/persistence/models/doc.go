// Package models contains the GORM persistence models of the unit-of-measure
// service. Domain types carry no ORM tags; each model converts to and from
// its domain type with ToDomain / FromDomain.
package models
