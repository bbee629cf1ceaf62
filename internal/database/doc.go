// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── session.go       # Unit of work, transactions, lazy reference loading
//	├── errors.go        # FatalError and constraint classification
//	├── repository/      # Generic Repository[T] with create/find/update/delete
//	├── books/           # Book lookups and the favouriting-users view
//	├── copies/          # Copy lookups and the active-loan view
//	├── users/           # Members, cascades and favourites
//	├── loans/           # Loan queries, Criteria builder, overdue sweep
//	└── ratings/         # Ratings keyed by (user, book, category)
//
// # Sessions
//
// Every unit of work opens a Session. Entities read through a session keep
// their lazy references resolvable until the session is closed, after which
// resolving them fails with entities.ErrDetachedReference.
//
//	db, err := database.NewDatabase("./lending.db")
//	session := db.OpenSession()
//	defer session.Close()
//
//	loansRepo := loans.NewRepository(session)
//	active, err := loansRepo.FindByStatus(entities.LoanStateActive)
//
// # Error Tiers
//
// Mutating operations run inside Session.Transact. A write the store rejects
// (constraint violation, missing row) is rolled back and reported as false or
// as the unchanged input, with a nil error. Only a transaction that cannot be
// begun, committed or rolled back produces a *FatalError naming the operation
// and entity type.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Embed *repository.Repository[entities.X] in a Repository struct
//  3. Add NewRepository(session *database.Session) constructor
//  4. Add domain queries on top of Query and FindOne
package database
