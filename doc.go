// Package cardforge is the Composition Root for CardForge, a local store of
// notes grouped into projects.
//
// It connects the collection state (Domain Layer) with the storage adapters
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Storage:
//
// Notes and projects live in an embedded SQLite database. When it cannot be
// opened or written, the session degrades for its remaining lifetime to a
// directory of flat JSON or YAML files, which also holds the display
// preferences. Mutations are applied in memory first and rolled back if no
// backend accepts the write.
//
// Features:
//
//   - **Projects**: every note belongs to one project; deleting a project deletes its notes.
//   - **Query**: project scope, case-insensitive search and pin-first sorting.
//   - **Exchange**: JSON export/import and a text transcript.
//   - **Notifications**: every mutation reports a success or error message.
//
// Usage:
//
//	app, err := cardforge.New(ctx, ".cardforge",
//		cardforge.WithLogger(logger),
//	)
//	defer app.Close()
//
//	note, err := app.Collection.CreateNote(ctx, core.NoteInput{Title: "Groceries"})
package cardforge
