package service

import (
	"testing"

	"ayaat-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsers(t *testing.T) (*fixture, UserService) {
	f := newFixture(t)
	return f, NewUserService(f.repos.Users, f.repos.Settings, f.policy)
}

func emails(users []model.UserResponse) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Email
	}
	return out
}

func TestCreateUserRoleRules(t *testing.T) {
	f, svc := newUsers(t)

	req := func(email string, role model.Role) *CreateUserRequest {
		return &CreateUserRequest{Name: "New Hire", Email: email, Password: "secret1", Role: role, JoinDate: "2024-05-01"}
	}

	_, err := svc.CreateUser(f.cashier, req("a@test.local", model.RoleCashier))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateUser(f.manager, req("b@test.local", model.RoleAdmin))
	assert.ErrorIs(t, err, ErrForbidden, "only admins create admins")

	created, err := svc.CreateUser(f.manager, req("C@Test.Local", model.RoleCashier))
	require.NoError(t, err)
	assert.Equal(t, "c@test.local", created.Email)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, "2024-05-01", created.JoinDate)

	_, err = svc.CreateUser(f.admin, req("c@test.local", model.RoleCashier))
	assert.ErrorIs(t, err, ErrEmailExists)

	admin, err := svc.CreateUser(f.admin, req("d@test.local", model.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	_, err = svc.CreateUser(f.admin, &CreateUserRequest{Name: "Short", Email: "e@test.local", Password: "123", Role: model.RoleCashier})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestManagerIsolationAndMasking(t *testing.T) {
	f, svc := newUsers(t)

	visible, err := svc.GetAllUsers(f.manager, "")
	require.NoError(t, err)
	assert.Len(t, visible, 2, "admins are hidden from managers")
	assert.NotContains(t, emails(visible), f.admin.Email)

	_, err = svc.GetUserByID(f.manager, f.admin.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	f.employeeSettings(t, func(es *model.EmployeeSettings) { es.ManagerIsolation = false; es.MaskIdentity = true })

	visible, err = svc.GetAllUsers(f.manager, "")
	require.NoError(t, err)
	assert.Len(t, visible, 3)
	for _, u := range visible {
		assert.NotContains(t, u.Email, "@", "masked for non-admins")
	}

	self, err := svc.GetUserByID(f.manager, f.manager.ID)
	require.NoError(t, err)
	assert.Equal(t, f.manager.Email, self.Email, "own record is never masked")

	all, err := svc.GetAllUsers(f.admin, "")
	require.NoError(t, err)
	assert.Contains(t, emails(all), f.cashier.Email)

	_, err = svc.GetAllUsers(f.cashier, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSearchAndStats(t *testing.T) {
	f, svc := newUsers(t)
	f.addUser(t, "Chris Cashier", "chris@test.local", model.RoleCashier)

	cashiers, err := svc.GetAllUsers(f.admin, "cashier")
	require.NoError(t, err)
	assert.Len(t, cashiers, 2)

	byEmail, err := svc.GetAllUsers(f.admin, "SARAH@")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Sarah Manager", byEmail[0].Name)

	stats, err := svc.Stats(f.admin)
	require.NoError(t, err)
	assert.Equal(t, &EmployeeStats{Total: 4, Active: 4, Admins: 1, Managers: 1, Cashiers: 2}, stats)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	f, svc := newUsers(t)

	_, err := svc.UpdateUser(f.manager, f.cashier.ID, &UpdateUserRequest{Name: "Sam", Email: f.cashier.Email, Role: model.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden, "managers cannot promote to admin")

	updated, err := svc.UpdateUser(f.manager, f.cashier.ID, &UpdateUserRequest{
		Name: "Sam Senior", Email: f.cashier.Email, Role: model.RoleCashier, Status: model.StatusOnBreak, Password: ptr("newpass1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam Senior", updated.Name)
	assert.Equal(t, model.StatusOnBreak, updated.Status)

	stored, err := f.repos.Users.FindByID(f.cashier.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword("newpass1"))

	_, err = svc.UpdateUser(f.admin, f.cashier.ID, &UpdateUserRequest{Name: "Sam", Email: f.manager.Email, Role: model.RoleCashier})
	assert.ErrorIs(t, err, ErrEmailExists)

	assert.ErrorIs(t, svc.DeleteUser(f.manager, f.manager.ID), ErrSelfDelete)
	assert.ErrorIs(t, svc.DeleteUser(f.manager, f.admin.ID), ErrEmployeeNotFound)
	require.NoError(t, svc.DeleteUser(f.manager, f.cashier.ID))

	_, err = svc.GetUserByID(f.admin, f.cashier.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}
