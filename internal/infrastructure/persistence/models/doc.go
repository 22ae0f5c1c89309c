// Package models contains GORM persistence models that map to database
// tables. They are kept apart from domain entities so the domain stays free
// of ORM tags; repositories convert between the two.
//
//   - numbering.go: document templates and counters
//   - amortization.go: purchase installment schedule rows
//   - procurement.go: read models for purchase and goods receipt totals
package models
