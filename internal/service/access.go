package service

import (
	"Inventaris/internal/model"
	"fmt"
)

// Caller: кто выполняет операцию. Заполняется транспортом после аутентификации.
type Caller struct {
	UserID int64
	Name   string
	Role   model.Role
}

// CallerFromUser строит Caller по учётной записи.
func CallerFromUser(u *model.User) Caller {
	return Caller{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// IsAdmin сообщает, администратор ли это.
func (c Caller) IsAdmin() bool { return c.Role == model.RoleAdmin }

// system: внутренний вызывающий для сидирования и bootstrap.
var system = Caller{Name: "system", Role: model.RoleAdmin}

// Authorize: единая проверка роли для всех операций с ограничением доступа.
func Authorize(c Caller, required model.Role) error {
	if !c.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrForbidden, c.Role)
	}
	if required == model.RoleAdmin && c.Role != model.RoleAdmin {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}
