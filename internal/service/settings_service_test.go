package service

import (
	"testing"

	"ayaat-pos/internal/authz"
	"ayaat-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettings(t *testing.T) (*fixture, SettingsService) {
	f := newFixture(t)
	return f, NewSettingsService(f.repos, f.policy, f.hub)
}

func TestUpdateStoreSettings(t *testing.T) {
	f, svc := newSettings(t)

	st := model.DefaultStoreSettings()
	st.Currency = " usd "
	st.TaxRate = dec("7.5")

	_, err := svc.UpdateStoreSettings(f.manager, &st)
	assert.ErrorIs(t, err, ErrForbidden)

	saved, err := svc.UpdateStoreSettings(f.admin, &st)
	require.NoError(t, err)
	assert.Equal(t, "USD", saved.Currency)

	current, err := svc.StoreSettings()
	require.NoError(t, err)
	assertDec(t, "7.5", current.TaxRate)
	assert.Contains(t, f.hub.Types(), "settings_update/store_settings")

	st.TaxRate = dec("101")
	_, err = svc.UpdateStoreSettings(f.admin, &st)
	assert.ErrorIs(t, err, ErrValidation)

	st.TaxRate = dec("5")
	st.PointsPerUnit = 0
	_, err = svc.UpdateStoreSettings(f.admin, &st)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmployeeSettingsAccess(t *testing.T) {
	f, svc := newSettings(t)

	_, err := svc.EmployeeSettings(f.cashier)
	assert.ErrorIs(t, err, ErrForbidden)

	es, err := svc.EmployeeSettings(f.manager)
	require.NoError(t, err)
	assert.Equal(t, 8, es.MaxShiftHours)

	es.MaxShiftHours = 10
	_, err = svc.UpdateEmployeeSettings(f.manager, es)
	assert.ErrorIs(t, err, ErrForbidden)

	saved, err := svc.UpdateEmployeeSettings(f.admin, es)
	require.NoError(t, err)
	assert.Equal(t, 10, saved.MaxShiftHours)

	es.MaxShiftHours = 30
	_, err = svc.UpdateEmployeeSettings(f.admin, es)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPermissionTogglesSurviveRestart(t *testing.T) {
	f, svc := newSettings(t)

	row, err := svc.SetPermission(f.admin, PermissionChange{Role: model.RoleCashier, Toggle: authz.ToggleVoidSale, Allowed: true})
	require.NoError(t, err)
	assert.True(t, row.VoidSale)
	assert.True(t, f.policy.Can(model.RoleCashier, authz.SaleVoid))

	_, err = svc.SetPermission(f.admin, PermissionChange{Role: model.RoleAdmin, Toggle: authz.ToggleVoidSale, Allowed: false})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetPermission(f.admin, PermissionChange{Role: model.RoleCashier, Toggle: "fly", Allowed: true})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetPermission(f.manager, PermissionChange{Role: model.RoleCashier, Toggle: authz.ToggleVoidSale, Allowed: false})
	assert.ErrorIs(t, err, ErrForbidden)

	rows, err := svc.Permissions(f.admin)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.RoleAdmin, rows[0].Role)

	fresh := authz.NewPolicy()
	require.False(t, fresh.Can(model.RoleCashier, authz.SaleVoid))
	require.NoError(t, NewSettingsService(f.repos, fresh, f.hub).RestorePermissions())
	assert.True(t, fresh.Can(model.RoleCashier, authz.SaleVoid))
	assert.True(t, fresh.Can(model.RoleCashier, authz.SaleCreate), "untoggled grants are kept")
}

func TestStoreBranches(t *testing.T) {
	f, svc := newSettings(t)

	_, err := svc.ListStores(f.manager)
	assert.ErrorIs(t, err, ErrForbidden)

	main, err := svc.CreateStore(f.admin, &model.Store{Name: " Main Branch ", Code: " dhk-01 ", TerminalCount: 3})
	require.NoError(t, err)
	assert.Equal(t, "DHK-01", main.Code)
	assert.Equal(t, model.StoreOpen, main.Status)

	_, err = svc.CreateStore(f.admin, &model.Store{Name: "Copy", Code: "DHK-01"})
	assert.ErrorIs(t, err, ErrStoreCodeExists)
	_, err = svc.CreateStore(f.admin, &model.Store{Name: "Bad", Code: "CTG-01", Status: "BURNING"})
	assert.ErrorIs(t, err, ErrValidation)

	second, err := svc.CreateStore(f.admin, &model.Store{Name: "Port", Code: "CTG-01"})
	require.NoError(t, err)

	updated, err := svc.UpdateStore(f.admin, second.ID, &model.Store{Name: "Port City", Code: "CTG-01", Status: model.StoreMaintenance})
	require.NoError(t, err)
	assert.Equal(t, model.StoreMaintenance, updated.Status)

	_, err = svc.UpdateStore(f.admin, second.ID, &model.Store{Name: "Port City", Code: "DHK-01"})
	assert.ErrorIs(t, err, ErrStoreCodeExists)
	_, err = svc.UpdateStore(f.admin, uuid.New(), &model.Store{Name: "X", Code: "X"})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	stores, err := svc.ListStores(f.admin)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "CTG-01", stores[0].Code)

	require.NoError(t, svc.DeleteStore(f.admin, main.ID))
	assert.ErrorIs(t, svc.DeleteStore(f.admin, main.ID), ErrStoreNotFound)
}
