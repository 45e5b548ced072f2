// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/store"
	"github.com/Ettorelg/Tesi/testutil"
)

func licenseTypes(licenses []models.License) []string {
	types := []string{}
	for _, l := range licenses {
		types = append(types, l.Type)
	}
	return types
}

func TestSetLicensesGrantAndRevoke(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)

	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return now })

	granted, revoked, err := st.SetLicenses(ctx, bob.ID, []string{models.LicenseVoice, models.LicenseQueue})
	require.NoError(t, err)
	assert.Equal(t, []string{models.LicenseQueue, models.LicenseVoice}, granted)
	assert.Empty(t, revoked)

	licenses, err := st.ListLicenses(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{models.LicenseQueue, models.LicenseVoice}, licenseTypes(licenses))
	for _, l := range licenses {
		assert.True(t, l.Active)
		assert.True(t, l.ExpiresAt.Equal(now.Add(store.LicenseTerm)))
		assert.NotEmpty(t, l.ExpiresIn)
	}

	// Unchanged types keep their expiration
	now = now.Add(48 * time.Hour)
	granted, revoked, err = st.SetLicenses(ctx, bob.ID, []string{models.LicenseQueue, models.LicenseDisplay})
	require.NoError(t, err)
	assert.Equal(t, []string{models.LicenseDisplay}, granted)
	assert.Equal(t, []string{models.LicenseVoice}, revoked)

	licenses, err = st.ListLicenses(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, licenses, 2)
	assert.Equal(t, models.LicenseQueue, licenses[0].Type)
	assert.True(t, licenses[0].ExpiresAt.Equal(now.Add(-48*time.Hour).Add(store.LicenseTerm)))
	assert.Equal(t, models.LicenseDisplay, licenses[1].Type)
}

func TestSetLicensesEmptyRevokesEverything(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)

	testutil.GrantTestLicenses(t, st, bob.ID, models.LicenseQueue)
	dept, err := st.AddDepartment(ctx, bob.ID, "Anagrafe")
	require.NoError(t, err)
	_, err = st.AddLine(ctx, bob.ID, dept.ID, "Carte d'identità")
	require.NoError(t, err)

	_, revoked, err := st.SetLicenses(ctx, bob.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{models.LicenseQueue}, revoked)

	conn := st.DB()
	assert.Zero(t, testutil.CountRows(t, conn, "licenze", "utente_id = $1", bob.ID))
	assert.Zero(t, testutil.CountRows(t, conn, "reparti", ""))
	assert.Zero(t, testutil.CountRows(t, conn, "file_reparto", ""))
}

func TestSetLicensesIdempotent(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)

	testutil.GrantTestLicenses(t, st, bob.ID, models.LicenseQueue)
	granted, revoked, err := st.SetLicenses(ctx, bob.ID, []string{models.LicenseQueue, models.LicenseQueue})
	require.NoError(t, err)
	assert.Empty(t, granted)
	assert.Empty(t, revoked)
	assert.Equal(t, 1, testutil.CountRows(t, st.DB(), "licenze", ""))
}

func TestSetLicensesErrors(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)

	_, _, err := st.SetLicenses(ctx, bob.ID, []string{"teletrasporto"})
	assert.ErrorIs(t, err, store.ErrValidation)

	_, _, err = st.SetLicenses(ctx, "missing-user", []string{models.LicenseQueue})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetLicensesRollsBackOnFailure(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM utenti`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT id, tipo FROM licenze`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tipo"}).AddRow("l1", models.LicenseVoice))
	mock.ExpectExec(`INSERT INTO licenze`).
		WithArgs(sqlmock.AnyArg(), "u1", models.LicenseQueue, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id FROM reparti`).
		WithArgs("l1").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	st := store.New(conn, "secret")
	_, _, err = st.SetLicenses(context.Background(), "u1", []string{models.LicenseQueue})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewLicense(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)
	testutil.GrantTestLicenses(t, st, bob.ID, models.LicenseDisplay)

	expiry := time.Date(2030, 6, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.RenewLicense(ctx, bob.ID, models.LicenseDisplay, expiry))

	licenses, err := st.ListLicenses(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.True(t, licenses[0].ExpiresAt.Equal(expiry))

	tests := []struct {
		name    string
		typ     string
		expiry  time.Time
		wantErr error
	}{
		{"license not held", models.LicenseVoice, expiry, store.ErrNotFound},
		{"unknown type", "teletrasporto", expiry, store.ErrValidation},
		{"missing date", models.LicenseDisplay, time.Time{}, store.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := st.RenewLicense(ctx, bob.ID, tt.typ, tt.expiry)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListLicensesMarksExpired(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)
	testutil.GrantTestLicenses(t, st, bob.ID, models.LicenseQueue)

	past := time.Now().Add(-72 * time.Hour)
	require.NoError(t, st.RenewLicense(ctx, bob.ID, models.LicenseQueue, past))

	licenses, err := st.ListLicenses(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, licenses, 1)
	assert.False(t, licenses[0].Active)
	assert.Contains(t, licenses[0].ExpiresIn, "ago")
}

func TestOverview(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, st, "bob", false)
	testutil.GrantTestLicenses(t, st, bob.ID, models.LicenseQueue)
	_, err := st.AddDepartment(ctx, bob.ID, "Tributi")
	require.NoError(t, err)

	ov, err := st.Overview(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", ov.User.Username)
	assert.Len(t, ov.Licenses, 1)
	require.Len(t, ov.Departments, 1)
	assert.Equal(t, "Tributi", ov.Departments[0].Name)
	assert.Equal(t, models.LicenseTypes, ov.AvailableTypes)

	_, err = st.Overview(ctx, "missing-user")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
