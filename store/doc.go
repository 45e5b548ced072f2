// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for users, sessions, licenses,
departments and lines.

	st := store.New(conn, cfg.SessionSecret)

Every operation that touches more than one row set runs inside a single
db.WithTx transaction: creating a user (uniqueness check and insert),
deleting a user, diffing licenses, and deleting departments with their
lines.

# Errors

Operations return sentinel errors wrapped with context; match them with
errors.Is:

  - ErrNotFound: the user, license, department or line does not exist
    (or does not belong to the given user)
  - ErrAlreadyExists: the username is taken
  - ErrValidation: a required field is empty or a license type is unknown
  - ErrPreconditionFailed: the user lacks an active eliminacode license
  - auth.ErrUnauthorized: bad credentials or an invalid session

# Licenses

License types come from models.LicenseTypes. A license is active while
its expiration lies in the future:

	granted, revoked, err := st.SetLicenses(ctx, userID, []string{models.LicenseQueue})
	err = st.RenewLicense(ctx, userID, models.LicenseQueue, newExpiry)

Revoking a license deletes its departments and their lines. Departments can
only be added while the user's eliminacode license is active.

# Time

Expirations use the clock set with SetClock (time.Now by default). All
timestamps are stored in UTC with second precision.
*/
package store
