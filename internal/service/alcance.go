package service

import (
	"context"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/google/uuid"
)

// sucursalVisible loads a branch and checks the actor may act on it.
// It reads outside any transaction; callers run it before runTx.
func sucursalVisible(ctx context.Context, repo repository.SucursalRepository, a actor.Actor, id uuid.UUID) (*model.Sucursal, error) {
	s, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, traducir(err, "sucursal")
	}
	if !a.AlcanzaSucursal(s.ID, s.CasinoID) {
		return nil, errProhibido("no tiene acceso a esta sucursal")
	}
	return s, nil
}

// resolverSucursal decides which branch an operation targets and checks scope.
func resolverSucursal(ctx context.Context, repo repository.SucursalRepository, a actor.Actor, solicitada *string) (*model.Sucursal, error) {
	pedida, err := parseIDOpcional(solicitada, "sucursal_id")
	if err != nil {
		return nil, err
	}
	id, err := a.ResolverSucursal(pedida)
	if err != nil {
		return nil, errValidacion("%s", err.Error())
	}
	return sucursalVisible(ctx, repo, a, id)
}

// alcanceListado turns the optional branch / casino filters of a listing into
// repository scope. An explicit branch is checked against the actor; otherwise
// master sees everything (or one casino), casino_admin its casino and pinned
// roles their own branch.
func alcanceListado(ctx context.Context, repo repository.SucursalRepository, a actor.Actor, sucursalID, casinoID string) (*uuid.UUID, *uuid.UUID, error) {
	pedida, err := parseIDOpcional(&sucursalID, "sucursal_id")
	if err != nil {
		return nil, nil, err
	}
	switch {
	case pedida != nil:
		if _, err := sucursalVisible(ctx, repo, a, *pedida); err != nil {
			return nil, nil, err
		}
		return pedida, nil, nil
	case a.EsMaster():
		casino, err := parseIDOpcional(&casinoID, "casino_id")
		return nil, casino, err
	case a.Rol == actor.RolCasinoAdmin:
		if a.CasinoID == nil {
			return nil, nil, errProhibido("el usuario no tiene casino asignado")
		}
		return nil, a.CasinoID, nil
	default:
		if a.SucursalID == nil {
			return nil, nil, errProhibido("el usuario no tiene sucursal asignada")
		}
		return a.SucursalID, nil, nil
	}
}
