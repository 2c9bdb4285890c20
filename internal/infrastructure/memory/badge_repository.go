package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/rfid-access-api/internal/domain"
	"github.com/jhoicas/rfid-access-api/internal/domain/entity"
	"github.com/jhoicas/rfid-access-api/internal/domain/repository"
)

var _ repository.BadgeRepository = (*BadgeRepo)(nil)

// BadgeRepo implementación en memoria de BadgeRepository.
// Dentro de TxRunner.Run (inTx) el lock ya está tomado y no se vuelve a adquirir.
type BadgeRepo struct {
	store *Store
	inTx  bool
}

// NewBadgeRepository repositorio para lecturas fuera de transacción.
func NewBadgeRepository(store *Store) *BadgeRepo {
	return &BadgeRepo{store: store}
}

func (r *BadgeRepo) read(fn func()) {
	if !r.inTx {
		r.store.mu.RLock()
		defer r.store.mu.RUnlock()
	}
	fn()
}

func (r *BadgeRepo) write(fn func()) {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	fn()
}

// Create inserta si el identificador no existe.
func (r *BadgeRepo) Create(_ context.Context, badge *entity.Badge) error {
	var err error
	r.write(func() {
		if _, ok := r.store.badges[badge.Identifier]; ok {
			err = domain.ErrDuplicateIdentifier
			return
		}
		r.store.badges[badge.Identifier] = *badge
	})
	return err
}

// GetByIdentifier devuelve una copia o nil si no existe.
func (r *BadgeRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.Badge, error) {
	var out *entity.Badge
	r.read(func() {
		if b, ok := r.store.badges[identifier]; ok {
			out = &b
		}
	})
	return out, nil
}

// GetByIdentifierForUpdate en memoria el lock de la tx ya serializa el acceso.
func (r *BadgeRepo) GetByIdentifierForUpdate(ctx context.Context, identifier string) (*entity.Badge, error) {
	return r.GetByIdentifier(ctx, identifier)
}

// Update reemplaza name y role.
func (r *BadgeRepo) Update(_ context.Context, badge *entity.Badge) error {
	var err error
	r.write(func() {
		current, ok := r.store.badges[badge.Identifier]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		current.Name = badge.Name
		current.Role = badge.Role
		r.store.badges[badge.Identifier] = current
	})
	return err
}

// Delete elimina el badge.
func (r *BadgeRepo) Delete(_ context.Context, identifier string) error {
	var err error
	r.write(func() {
		if _, ok := r.store.badges[identifier]; !ok {
			err = domain.ErrNotFound
			return
		}
		delete(r.store.badges, identifier)
	})
	return err
}

// List ordena por created_at descendente y luego por identificador.
func (r *BadgeRepo) List(_ context.Context, limit, offset int) ([]*entity.Badge, error) {
	var all []entity.Badge
	r.read(func() {
		all = make([]entity.Badge, 0, len(r.store.badges))
		for _, b := range r.store.badges {
			all = append(all, b)
		}
	})
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Identifier < all[j].Identifier
	})
	return page(all, limit, offset), nil
}

// Count número de badges.
func (r *BadgeRepo) Count(_ context.Context) (int, error) {
	var n int
	r.read(func() { n = len(r.store.badges) })
	return n, nil
}

func page[T any](all []T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*T, 0, end-offset)
	for i := offset; i < end; i++ {
		item := all[i]
		out = append(out, &item)
	}
	return out
}
