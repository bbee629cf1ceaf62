// Package interfaces documents the core abstractions of the lending service
// and checks at compile time that the concrete types satisfy them.
//
// # Data Access Interfaces
//
//   - entities.Entity: anything stored with a surrogate uint key. Rating is
//     the exception and is keyed by entities.RatingKey.
//   - entities.Loader: resolves lazy references (implemented by
//     database.Session).
//   - entities.SessionBinder: entities holding lazy references. Repositories
//     bind everything they read to the session that read it.
//
// # Adding a New Entity
//
//  1. Declare the struct in internal/entities with an EntityID method and
//     a TableName.
//  2. Hold references to other entities as entities.Ref[T] next to the
//     foreign key column, and implement BindSession and BeforeSave.
//  3. Append the model to database.Models so AutoMigrate creates its table.
//  4. Use repository.New[T](session) directly, or embed it in a domain
//     package under internal/database when extra queries are needed.
//  5. Add the compile-time checks to checks.go.
package interfaces
