// Package git provides Git operations via exec for the quaderno CLI.
//
// This package wraps git commands by shelling out to the git executable,
// capturing stdout/stderr and translating failures to exit-coded errors.
// Every function takes the repository directory as its first argument;
// an empty string means the current directory.
//
// # Running Git Commands
//
// For custom git commands, use Run or RunContext:
//
//	out, err := git.Run(root, "status", "--short")
//	out, err := git.RunContext(ctx, root, "log", "--oneline", "-5")
//
// # Publication Operations
//
// The publish pipeline uses the staged-diff helpers to decide whether a
// commit is warranted:
//
//	changed, err := git.FileHasDiff(root, "data/archivo.json")
//	staged, err := git.HasStagedChanges(root, paths...)
//
// An untracked file counts as having a diff: new source files must be
// committable on first publish.
//
// # Error Handling
//
// All functions return errors wrapped with appropriate exit codes:
//   - ExitUserError (1) for user errors like running outside a repository
//   - ExitSystemError (2) for system errors like git not found
package git
