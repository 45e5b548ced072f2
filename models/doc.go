// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names follow the Italian wire format used by the kiosk and
operator pages (numero, sportello_nome, reparti, ...).

# Request Types

  - LoginRequest: username, password
  - ManageUsersRequest: action (add, update, delete), username, password,
    is_admin, sportello_nome, sportello_numero
  - ManageLicensesRequest: action (set_licenses, renew, add_department,
    delete_department, add_line, delete_line) plus the fields it needs

# Response Types

  - MessageResponse: message
  - NumberResponse: message, numero, emessi
  - LoginResponse: message, token, is_admin, redirect
  - LicenseOverview: utente, licenze, reparti, tipi_disponibili
  - ErrorResponse: error, message

# Domain Types

  - User: operator or admin account with an optional counter (sportello)
  - License: feature entitlement with an expiration date
  - Department: grouping of lines under an eliminacode license
  - Line: a single service queue inside a department

# Constants

License types:

	LicenseQueue   = "eliminacode"
	LicenseDisplay = "visualizzazione"
	LicenseVoice   = "sintesi_vocale"
*/
package models
