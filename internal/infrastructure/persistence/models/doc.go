// Package models contains the GORM persistence models for bills.
// They are kept apart from the domain types so the domain stays free of ORM
// tags; ToDomain / FromDomain functions convert between the two.
package models
