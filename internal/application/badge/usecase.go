package badge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/rfid-access-api/internal/application/dto"
	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/access"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

// Longitudes máximas de las columnas de badges.
const (
	maxIdentifierLen = 50
	maxNameLen       = 100
)

// UseCase registro de badges: alta, consulta, modificación y baja.
type UseCase struct {
	tx    TxRunner
	repo  repository.BadgeRepository
	clock func() time.Time
}

// NewUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewUseCase(tx TxRunner, repo repository.BadgeRepository) *UseCase {
	return &UseCase{tx: tx, repo: repo, clock: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.clock = now
	return uc
}

// Register crea un badge. Devuelve domain.ErrDuplicateIdentifier si el identificador normalizado ya existe.
func (uc *UseCase) Register(ctx context.Context, in dto.CreateBadgeRequest) (*dto.BadgeResponse, error) {
	identifier, err := ValidIdentifier(in.Identifier)
	if err != nil {
		return nil, err
	}
	name, err := ValidName(in.Name)
	if err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}

	badge := &entity.Badge{
		Identifier: identifier,
		Name:       name,
		Role:       role,
		CreatedAt:  uc.clock().UTC(),
	}
	err = uc.tx.Run(ctx, func(badges repository.BadgeRepository) error {
		existing, err := badges.GetByIdentifier(ctx, identifier)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateIdentifier
		}
		// Una inserción concurrente que gane la carrera se detecta por la constraint UNIQUE.
		return badges.Create(ctx, badge)
	})
	if err != nil {
		return nil, err
	}
	return toBadgeResponse(badge), nil
}

// Find busca un badge. La ausencia no es un error: devuelve nil, nil.
func (uc *UseCase) Find(ctx context.Context, rawIdentifier string) (*entity.Badge, error) {
	identifier := access.Normalize(rawIdentifier)
	if identifier == "" {
		return nil, nil
	}
	return uc.repo.GetByIdentifier(ctx, identifier)
}

// Get igual que Find pero devuelve domain.ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, rawIdentifier string) (*dto.BadgeResponse, error) {
	badge, err := uc.Find(ctx, rawIdentifier)
	if err != nil {
		return nil, err
	}
	if badge == nil {
		return nil, domain.ErrNotFound
	}
	return toBadgeResponse(badge), nil
}

// Update modifica nombre y rol. Identifier y CreatedAt no cambian.
func (uc *UseCase) Update(ctx context.Context, rawIdentifier string, in dto.UpdateBadgeRequest) (*dto.BadgeResponse, error) {
	identifier := access.Normalize(rawIdentifier)
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	name, err := ValidName(in.Name)
	if err != nil {
		return nil, err
	}
	role, err := entity.ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}

	var updated *entity.Badge
	err = uc.tx.Run(ctx, func(badges repository.BadgeRepository) error {
		current, err := badges.GetByIdentifierForUpdate(ctx, identifier)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		current.Name = name
		current.Role = role
		if err := badges.Update(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toBadgeResponse(updated), nil
}

// Delete elimina físicamente un badge. Devuelve domain.ErrNotFound si no existe.
func (uc *UseCase) Delete(ctx context.Context, rawIdentifier string) (*dto.DeleteBadgeResponse, error) {
	identifier := access.Normalize(rawIdentifier)
	if identifier == "" {
		return nil, domain.ErrNotFound
	}
	err := uc.tx.Run(ctx, func(badges repository.BadgeRepository) error {
		return badges.Delete(ctx, identifier)
	})
	if err != nil {
		return nil, err
	}
	return &dto.DeleteBadgeResponse{Message: "Badge eliminado", Identifier: identifier}, nil
}

// List lista badges con paginación (más recientes primero).
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.BadgeListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BadgeResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBadgeResponse(b))
	}
	return &dto.BadgeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ValidIdentifier normaliza y comprueba longitud (máx. 50 caracteres).
func ValidIdentifier(raw string) (string, error) {
	identifier := access.Normalize(raw)
	if identifier == "" {
		return "", fmt.Errorf("%w: identifier es requerido", domain.ErrInvalidInput)
	}
	if len([]rune(identifier)) > maxIdentifierLen {
		return "", fmt.Errorf("%w: identifier supera %d caracteres", domain.ErrInvalidInput, maxIdentifierLen)
	}
	return identifier, nil
}

// ValidName recorta espacios y comprueba longitud (máx. 100 caracteres).
func ValidName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	if len([]rune(name)) > maxNameLen {
		return "", fmt.Errorf("%w: name supera %d caracteres", domain.ErrInvalidInput, maxNameLen)
	}
	return name, nil
}

func toBadgeResponse(b *entity.Badge) *dto.BadgeResponse {
	if b == nil {
		return nil
	}
	return &dto.BadgeResponse{
		Identifier: b.Identifier,
		Name:       b.Name,
		Role:       string(b.Role),
		RoleName:   b.Role.Label(),
		CreatedAt:  b.CreatedAt,
	}
}
