package memory

import (
	"context"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria, indexados por username.
type UserRepo struct {
	a accessor
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.users[u.Username]; ok {
			return domain.NewFieldError(domain.ErrValidation, "username", u.Username, "ya existe")
		}
		st.users[u.Username] = *u
		return nil
	})
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	r.a.read(func(st *state) {
		if u, ok := st.users[username]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	n := 0
	r.a.read(func(st *state) { n = len(st.users) })
	return n, nil
}
