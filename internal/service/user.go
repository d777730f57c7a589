package service

import (
	"Inventaris/internal/model"
	"Inventaris/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserService: учётные записи и вход.
type UserService struct {
	repo repo.UserRepository
}

// NewUserService создаёт сервис пользователей.
func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Login проверяет логин и пароль.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fromRepo("get user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Create заводит пользователя. Только админ.
func (s *UserService) Create(ctx context.Context, caller Caller, login, password, name string, role model.Role) (*model.User, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	return s.register(ctx, login, password, name, role)
}

// List возвращает всех пользователей. Только админ.
func (s *UserService) List(ctx context.Context, caller Caller) ([]model.User, error) {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fromRepo("list users", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Delete удаляет пользователя. Удалить самого себя нельзя.
func (s *UserService) Delete(ctx context.Context, caller Caller, id int64) error {
	if err := Authorize(caller, model.RoleAdmin); err != nil {
		return err
	}
	if id == caller.UserID {
		return validationf("cannot delete your own account")
	}
	return fromRepo(fmt.Sprintf("delete user %d", id), s.repo.Delete(ctx, id))
}

// EnsureAdmin создаёт первого админа, если пользователей ещё нет.
func (s *UserService) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fromRepo("count users", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.register(ctx, login, password, "Administrator", model.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserService) register(ctx context.Context, login, password, name string, role model.Role) (*model.User, error) {
	login = strings.TrimSpace(login)
	name = strings.TrimSpace(name)
	if login == "" {
		return nil, validationf("username is required")
	}
	if password == "" {
		return nil, validationf("password is required")
	}
	if name == "" {
		name = login
	}
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, validationf("unknown role %q", role)
	}

	_, err := s.repo.GetUserByLogin(ctx, login)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", ErrLoginTaken, login)
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fromRepo("get user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.repo.CreateUser(ctx, &model.User{Login: login, Password: string(hash), Name: name, Role: role})
	if err != nil {
		return nil, fromRepo("create user", err)
	}
	return u, nil
}
