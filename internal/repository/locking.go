package repository

import "gorm.io/gorm/clause"

// paraActualizar appends FOR UPDATE. The SQLite dialect drops locking clauses,
// so the same repository code runs against the in-memory test database.
var paraActualizar = clause.Locking{Strength: "UPDATE"}

// paginar normalises page/limit the way every list endpoint does.
func paginar(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}
