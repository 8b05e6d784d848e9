package model

import "github.com/google/uuid"

// asignarID fills a zero primary key before insert. IDs are generated in Go
// so the same models work against Postgres and the SQLite test database.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
