// Package permission resolves what a user may do inside their tenant.
// Owners may do everything; Members are limited by their capability flags.
package permission

import "github.com/suteetoe/honeydew/internal/model"

// CanCreateTodo is true for every role.
func CanCreateTodo(u *model.User) bool {
	return true
}

func CanEditTodo(u *model.User) bool {
	return u.IsOwner() || u.CanEditAllTodos
}

func CanCreateUser(u *model.User) bool {
	return u.IsOwner() || u.CanCreateUser
}

// CanViewAllTodos gates listing and exporting todos created by others.
func CanViewAllTodos(u *model.User) bool {
	return u.IsOwner() || u.CanViewAllTodos
}

// CanEditTodoItem allows edit-all holders, the creator and the current assignee.
func CanEditTodoItem(u *model.User, t *model.TodoItem) bool {
	if CanEditTodo(u) || t.CreatedByUserID == u.ID {
		return true
	}
	return t.AssignedToUserID != nil && *t.AssignedToUserID == u.ID
}

// CanViewTodoItem allows view-all holders and the creator.
func CanViewTodoItem(u *model.User, t *model.TodoItem) bool {
	return CanViewAllTodos(u) || t.CreatedByUserID == u.ID
}

// CanManageUser gates role, capability and active-state changes.
// An Owner cannot change their own.
func CanManageUser(actor, target *model.User) bool {
	return actor.IsOwner() && actor.ID != target.ID
}

func CanDeleteUser(actor, target *model.User) bool {
	return actor.IsOwner() || actor.ID == target.ID
}

// CanListUsers allows any member to fetch the assignment list.
func CanListUsers(u *model.User, forAssignmentOnly bool) bool {
	return forAssignmentOnly || CanCreateUser(u)
}

// CanManageTenant gates household settings, billing and API clients.
func CanManageTenant(u *model.User) bool {
	return u.IsOwner()
}
