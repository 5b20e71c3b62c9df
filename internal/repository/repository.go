// Package repository contains the GORM data access layer. Every query is
// scoped by tenant ID; cross-tenant reads are a bug, not a feature.
package repository

import "gorm.io/gorm/clause"

// forUpdate is the SELECT ... FOR UPDATE clause used wherever a balance or
// stock figure is read and rewritten inside the same transaction.
func forUpdate() clause.Locking { return clause.Locking{Strength: "UPDATE"} }
