// Package errors provides structured error handling for the gamebook engine.
//
// Errors carry a Code, a message, optional metadata, and an optional cause:
//
//	err := errors.NotFound("section not found").
//	    WithMeta("book_id", bookID).
//	    WithMeta("section", sectionNumber)
//
// Wrapping preserves the code of an already-classified error:
//
//	if err := repo.Get(ctx, id); err != nil {
//	    return errors.Wrap(err, "failed to load session")
//	}
//
// Checking:
//
//	if errors.IsNotFound(err) {
//	    // degrade to fallback context
//	}
//
// Layer guidelines: repositories return NotFound/AlreadyExists/Aborted with
// IDs in metadata; orchestrators return InvalidArgument for bad input and
// FailedPrecondition for state conflicts; the HTTP layer maps codes to
// status via Code.HTTPStatus and never exposes raw causes.
package errors
