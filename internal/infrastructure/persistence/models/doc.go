// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of GORM tags; each model converts to and from its
// domain counterpart with ToDomain and FromDomain.
package models
