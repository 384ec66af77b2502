package blogerr

// Convenience constructors for the build error taxonomy. Load-time failures
// (config parse, front matter, duplicate alias) are fatal: a static site
// with silently missing pages is worse than a build failure the operator
// can fix.

// Config errors

func ConfigNotFound(path string) *Error {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigParse(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration parse failed").
		WithContext("path", path)
}

func ConfigInvalid(path, field, reason string) *Error {
	return New(CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func FrontMatter(path, reason string) *Error {
	return New(CategoryFrontMatter, SeverityFatal, "front matter invalid").
		WithContext("path", path).
		WithContext("reason", reason)
}

func FrontMatterParse(path string, cause error) *Error {
	return Wrap(cause, CategoryFrontMatter, SeverityFatal, "front matter parse failed").
		WithContext("path", path)
}

func ContentRead(path string, cause error) *Error {
	return Wrap(cause, CategoryContent, SeverityFatal, "content file read failed").
		WithContext("path", path)
}

// Index errors

func DuplicateAlias(alias, firstPath, secondPath string) *Error {
	return New(CategoryIndex, SeverityFatal, "duplicate alias").
		WithContext("alias", alias).
		WithContext("path", secondPath).
		WithContext("claimed_by", firstPath)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *Error {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func RenderFailed(cause error) *Error {
	return Wrap(cause, CategoryRender, SeverityFatal, "external renderer failed")
}

func StagingError(operation string, cause error) *Error {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "staging operation failed").
		WithContext("operation", operation)
}

// Server errors

func ServerError(operation string, cause error) *Error {
	return Wrap(cause, CategoryServer, SeverityFatal, "preview server failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *Error {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
