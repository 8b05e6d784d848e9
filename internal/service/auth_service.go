package service

import (
	"context"
	"errors"
	"time"

	"gamblerpro/internal/actor"
	"gamblerpro/internal/config"
	"gamblerpro/internal/dto"
	"gamblerpro/internal/model"
	"gamblerpro/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the "typ" claim. The JWT middleware only admits access tokens.
const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

var (
	ErrCredenciales    = errors.New("credenciales invalidas")
	ErrRefreshInvalido = errors.New("refresh token invalido o expirado")
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, a actor.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
}

type authService struct {
	repo       repository.UsuarioRepository
	sucursales repository.SucursalRepository
	cfg        *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, sucursales repository.SucursalRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, sucursales: sucursales, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.emitir(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrRefreshInvalido
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresco {
		return nil, ErrRefreshInvalido
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, errors.New("usuario no encontrado o inactivo")
	}
	return s.emitir(user)
}

// CrearUsuario enforces the role hierarchy: master_admin creates anyone,
// casino_admin creates branch users of its casino, the rest create nobody.
func (s *authService) CrearUsuario(ctx context.Context, a actor.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	rol, err := actor.ParseRol(req.Rol)
	if err != nil {
		return nil, errValidacion("rol invalido")
	}
	casinoID, err := parseIDOpcional(req.CasinoID, "casino_id")
	if err != nil {
		return nil, err
	}
	sucursalID, err := parseIDOpcional(req.SucursalID, "sucursal_id")
	if err != nil {
		return nil, err
	}

	switch rol {
	case actor.RolCasinoAdmin:
		if casinoID == nil {
			return nil, errValidacion("casino_id es requerido para casino_admin")
		}
		sucursalID = nil
	case actor.RolSucursalAdmin, actor.RolCajero:
		if sucursalID == nil {
			return nil, errValidacion("sucursal_id es requerido para %s", rol)
		}
		suc, err := s.sucursales.FindByID(ctx, *sucursalID)
		if err != nil {
			return nil, traducir(err, "sucursal")
		}
		casinoID = &suc.CasinoID
	default:
		casinoID, sucursalID = nil, nil
	}

	switch a.Rol {
	case actor.RolMasterAdmin:
	case actor.RolCasinoAdmin:
		if rol != actor.RolSucursalAdmin && rol != actor.RolCajero {
			return nil, errProhibido("un casino_admin solo puede crear usuarios de sucursal")
		}
		if a.CasinoID == nil || casinoID == nil || *a.CasinoID != *casinoID {
			return nil, errProhibido("la sucursal no pertenece a su casino")
		}
	default:
		return nil, errProhibido("no tiene permiso para crear usuarios")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     req.Username,
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          string(rol),
		CasinoID:     casinoID,
		SucursalID:   sucursalID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, traducir(err, "usuario")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) emitir(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresco, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, typ string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":     user.ID.String(),
		"username":    user.Username,
		"rol":         user.Rol,
		"casino_id":   idPtrString(user.CasinoID),
		"sucursal_id": idPtrString(user.SucursalID),
		"typ":         typ,
		"exp":         now.Add(duration).Unix(),
		"iat":         now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Nombre:     u.Nombre,
		Email:      u.Email,
		Rol:        u.Rol,
		CasinoID:   idPtrString(u.CasinoID),
		SucursalID: idPtrString(u.SucursalID),
		Activo:     u.Activo,
	}
}
