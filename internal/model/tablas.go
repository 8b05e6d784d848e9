package model

// Tablas lists every persisted model in dependency order. The production schema
// is owned by migrations/; this list only feeds AutoMigrate in SQLite-backed tests.
func Tablas() []any {
	return []any{
		&Casino{},
		&Sucursal{},
		&Usuario{},
		&Maquina{},
		&TipoGasto{},
		&Proveedor{},
		&CierreCaja{},
		&LecturaMaquina{},
		&Gasto{},
		&Retencion{},
	}
}
