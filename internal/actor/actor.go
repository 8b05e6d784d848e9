// Package actor resolves who is performing an operation and what that role may do.
// Every privilege decision in the service layer goes through the capability
// table below instead of comparing role names inline.
package actor

import (
	"errors"

	"github.com/google/uuid"
)

// Rol is the closed set of roles issued by the login edge.
type Rol string

const (
	RolMasterAdmin   Rol = "master_admin"
	RolCasinoAdmin   Rol = "casino_admin"
	RolSucursalAdmin Rol = "sucursal_admin"
	RolCajero        Rol = "cajero"
)

var roles = []Rol{RolMasterAdmin, RolCasinoAdmin, RolSucursalAdmin, RolCajero}

var ErrRolInvalido = errors.New("rol invalido")

// ParseRol validates a role name coming from a token or the seeder.
func ParseRol(s string) (Rol, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrRolInvalido
}

// Roles returns every known role, highest privilege first.
func Roles() []Rol {
	out := make([]Rol, len(roles))
	copy(out, roles)
	return out
}

// Capacidad is a single privilege predicate.
type Capacidad int

const (
	// EditarConfirmada allows editing a reading that is already confirmed.
	EditarConfirmada Capacidad = iota
	// EliminarConfirmada allows deleting a confirmed (but still open) reading.
	EliminarConfirmada
	// ConfirmarAlCrear makes new readings confirmed on insert.
	ConfirmarAlCrear
	// FijarNetoInicial lets the caller supply the carry-in explicitly.
	FijarNetoInicial
	// ModificarCerrada allows edits that touch rows already absorbed by a closing.
	ModificarCerrada
	GestionarMaquinas
	TransferirMaquinas
	// ElegirSucursal means the actor is not pinned to one branch and must name it.
	ElegirSucursal
)

var matriz = map[Capacidad][]Rol{
	EditarConfirmada:   {RolMasterAdmin},
	EliminarConfirmada: {RolMasterAdmin},
	ConfirmarAlCrear:   {RolMasterAdmin},
	FijarNetoInicial:   {RolMasterAdmin, RolCasinoAdmin, RolSucursalAdmin},
	ModificarCerrada:   {RolMasterAdmin},
	GestionarMaquinas:  {RolMasterAdmin, RolCasinoAdmin, RolSucursalAdmin},
	TransferirMaquinas: {RolMasterAdmin, RolCasinoAdmin},
	ElegirSucursal:     {RolMasterAdmin, RolCasinoAdmin},
}

// Puede reports whether rol holds capacidad. Unknown roles hold nothing.
func Puede(rol Rol, c Capacidad) bool {
	for _, r := range matriz[c] {
		if r == rol {
			return true
		}
	}
	return false
}

// Actor is the explicit caller context passed into every service operation.
type Actor struct {
	UsuarioID  uuid.UUID
	Rol        Rol
	CasinoID   *uuid.UUID
	SucursalID *uuid.UUID
}

func (a Actor) Puede(c Capacidad) bool { return Puede(a.Rol, c) }

func (a Actor) EsMaster() bool { return a.Rol == RolMasterAdmin }

func (a Actor) EsCajero() bool { return a.Rol == RolCajero }

// AlcanzaSucursal reports whether the actor may see rows of the given branch.
// casinoID is the casino that owns the branch.
func (a Actor) AlcanzaSucursal(sucursalID, casinoID uuid.UUID) bool {
	switch a.Rol {
	case RolMasterAdmin:
		return true
	case RolCasinoAdmin:
		return a.CasinoID != nil && *a.CasinoID == casinoID
	case RolSucursalAdmin, RolCajero:
		return a.SucursalID != nil && *a.SucursalID == sucursalID
	default:
		return false
	}
}

var ErrSucursalRequerida = errors.New("sucursal_id es requerido para este rol")

// ResolverSucursal picks the branch an operation applies to. Roles pinned to a
// branch always get their own, whatever they asked for; the others must name one.
func (a Actor) ResolverSucursal(solicitada *uuid.UUID) (uuid.UUID, error) {
	if a.Puede(ElegirSucursal) {
		if solicitada != nil && *solicitada != uuid.Nil {
			return *solicitada, nil
		}
		if a.SucursalID != nil {
			return *a.SucursalID, nil
		}
		return uuid.Nil, ErrSucursalRequerida
	}
	if a.SucursalID == nil {
		return uuid.Nil, ErrSucursalRequerida
	}
	return *a.SucursalID, nil
}
