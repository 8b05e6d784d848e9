package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Reloj is the "now" source. Services take one so tests can pin the date.
type Reloj func() time.Time

func RelojSistema() time.Time { return time.Now() }

// hoy truncates to a calendar date in UTC, the representation every fecha uses.
func hoy(r Reloj) time.Time {
	return aFecha(r())
}

func aFecha(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const layoutFecha = "2006-01-02"

// parseFecha reads "YYYY-MM-DD"; an empty string yields today.
func parseFecha(s string, r Reloj) (time.Time, error) {
	if s == "" {
		return hoy(r), nil
	}
	t, err := time.Parse(layoutFecha, s)
	if err != nil {
		return time.Time{}, errValidacion("fecha invalida, formato esperado AAAA-MM-DD")
	}
	return t, nil
}

func parseFechaOpcional(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(layoutFecha, s)
	if err != nil {
		return nil, errValidacion("fecha invalida, formato esperado AAAA-MM-DD")
	}
	return &t, nil
}
