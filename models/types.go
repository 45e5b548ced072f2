package models

import "time"

// License type constants
const (
	LicenseQueue   = "eliminacode"
	LicenseDisplay = "visualizzazione"
	LicenseVoice   = "sintesi_vocale"
)

// LicenseTypes is the fixed set of grantable license types, in display order.
var LicenseTypes = []string{LicenseQueue, LicenseDisplay, LicenseVoice}

// User admin actions
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// License admin actions
const (
	ActionSetLicenses      = "set_licenses"
	ActionRenew            = "renew"
	ActionAddDepartment    = "add_department"
	ActionDeleteDepartment = "delete_department"
	ActionAddLine          = "add_line"
	ActionDeleteLine       = "delete_line"
)

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ManageUsersRequest struct {
	Action        string  `json:"action"`
	Username      string  `json:"username"`
	Password      string  `json:"password"`
	IsAdmin       bool    `json:"is_admin"`
	CounterName   *string `json:"sportello_nome"`
	CounterNumber *int    `json:"sportello_numero"`
}

// Fields are read according to Action; unused ones are ignored.
type ManageLicensesRequest struct {
	Action       string   `json:"action"`
	Types        []string `json:"tipi"`
	Type         string   `json:"tipo"`
	ExpiresAt    string   `json:"scadenza"` // YYYY-MM-DD or RFC 3339
	Name         string   `json:"nome"`
	DepartmentID string   `json:"reparto_id"`
	LineID       string   `json:"fila_id"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type NumberResponse struct {
	Message string `json:"message"`
	Number  int    `json:"numero"`
	Issued  *int   `json:"emessi,omitempty"`
}

type LoginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	IsAdmin  bool   `json:"is_admin"`
	Redirect string `json:"redirect"`
}

type SetLicensesResponse struct {
	Message string   `json:"message"`
	Granted []string `json:"concesse"`
	Revoked []string `json:"revocate"`
}

type LicenseOverview struct {
	User           User         `json:"utente"`
	Licenses       []License    `json:"licenze"`
	Departments    []Department `json:"reparti"`
	AvailableTypes []string     `json:"tipi_disponibili"`
}

// Domain types

type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	IsAdmin       bool      `json:"is_admin"`
	CounterName   *string   `json:"sportello_nome"`
	CounterNumber *int      `json:"sportello_numero"`
	CreatedAt     time.Time `json:"creato_il"`
}

type License struct {
	ID        string    `json:"id"`
	UserID    string    `json:"utente_id"`
	Type      string    `json:"tipo"`
	ExpiresAt time.Time `json:"scadenza"`
	Active    bool      `json:"attiva"`
	ExpiresIn string    `json:"scadenza_tra"` // e.g. "11 months from now"
}

type Department struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	LicenseID string `json:"licenza_id"`
	Lines     []Line `json:"file"`
}

type Line struct {
	ID           string `json:"id"`
	Name         string `json:"nome"`
	DepartmentID string `json:"reparto_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
