// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ettorelg/Tesi/middleware"
	"github.com/Ettorelg/Tesi/models"
	"github.com/Ettorelg/Tesi/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestManageUsers(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewUserHandler(st)

	testutil.CreateTestUser(t, st, "esistente", false)

	testCases := []struct {
		name            string
		body            interface{}
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "add user",
			body: models.ManageUsersRequest{
				Action: "add", Username: "bob", Password: "pw",
				CounterName: strPtr("Anagrafe"), CounterNumber: intPtr(2),
			},
			expectedStatus:  http.StatusCreated,
			expectedMessage: "Utente aggiunto con successo.",
		},
		{
			name:            "add duplicate",
			body:            models.ManageUsersRequest{Action: "add", Username: "esistente", Password: "pw"},
			expectedStatus:  http.StatusConflict,
			expectedMessage: "Utente già esistente.",
		},
		{
			name:           "add without password",
			body:           models.ManageUsersRequest{Action: "add", Username: "nopw"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "update counter",
			body: models.ManageUsersRequest{
				Action: "update", Username: "esistente",
				CounterName: strPtr("Tributi"), CounterNumber: intPtr(5),
			},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Sportello aggiornato con successo.",
		},
		{
			name:            "update missing user",
			body:            models.ManageUsersRequest{Action: "update", Username: "ghost"},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Utente non trovato.",
		},
		{
			name:            "delete user",
			body:            models.ManageUsersRequest{Action: "delete", Username: "esistente"},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Utente eliminato con successo.",
		},
		{
			name:            "delete missing user",
			body:            models.ManageUsersRequest{Action: "delete", Username: "esistente"},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Utente non trovato.",
		},
		{
			name:           "unknown action",
			body:           models.ManageUsersRequest{Action: "promote", Username: "bob"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing username",
			body:           models.ManageUsersRequest{Action: "delete"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	// Cases run in order; later ones depend on earlier ones
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ManageUsers(w, testutil.MakeRequest("POST", "/gestisci_utenti", tc.body, nil))

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedMessage == "" {
				return
			}

			var resp struct {
				Message string `json:"message"`
			}
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMessage, resp.Message)
			}
		})
	}

	bob, err := st.UserByName(t.Context(), "bob")
	if err != nil {
		t.Fatalf("Expected bob to exist: %v", err)
	}
	if bob.CounterNumber == nil || *bob.CounterNumber != 2 {
		t.Errorf("Expected bob at counter 2, got %v", bob.CounterNumber)
	}
}

func TestListUsers(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewUserHandler(st)

	testutil.CreateTestUser(t, st, "mario", false)
	testutil.CreateTestUser(t, st, "admin", true)

	w := httptest.NewRecorder()
	handler.ListUsers(w, testutil.MakeRequest("GET", "/gestisci_utenti", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if body := w.Body.String(); strings.Contains(body, "password") {
		t.Errorf("Password hash leaked in response: %s", body)
	}

	var users []models.User
	testutil.AssertJSON(t, w, &users)
	if len(users) != 2 || users[0].Username != "admin" || users[1].Username != "mario" {
		t.Errorf("Unexpected user list: %+v", users)
	}
}

func TestCannotDeleteSelf(t *testing.T) {
	st := testutil.SetupTestStore(t)
	handler := NewUserHandler(st)
	gate := middleware.NewGate(st)

	admin := testutil.CreateTestUser(t, st, "admin", true)
	token := testutil.LoginAs(t, st, admin)

	body := models.ManageUsersRequest{Action: "delete", Username: "admin"}
	w := httptest.NewRecorder()
	gate.RequireAdmin(handler.ManageUsers)(w, testutil.MakeRequest("POST", "/gestisci_utenti", body, testutil.AuthHeader(token)))

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if _, err := st.UserByName(t.Context(), "admin"); err != nil {
		t.Errorf("Expected admin to still exist: %v", err)
	}
}
