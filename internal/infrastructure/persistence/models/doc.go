// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - identity.go: accounts, contacts and confirmation tokens
//   - catalog.go: shops, categories, products, parameters and listings
//   - trade.go: orders and order lines
//
// Mappers convert between domain entities and models; repositories only ever read and
// write models.
package models
