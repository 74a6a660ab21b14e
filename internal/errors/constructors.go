package errors

// Convenience constructors for common error patterns

func ConfigNotFound(path string) *ConvertError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *ConvertError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func NoDocSets(sourceDir string) *ConvertError {
	return New(CategoryDiscovery, SeverityFatal, "no documentation sets found").
		WithContext("source", sourceDir)
}

func CyclicInclude(path string) *ConvertError {
	return New(CategoryDiscovery, SeverityError, "cyclic include detected").
		WithContext("path", path)
}

func PandocFailed(source string, cause error) *ConvertError {
	return Wrap(cause, CategoryPandoc, SeverityError, "pandoc conversion failed").
		WithContext("source", source)
}

func CloneFailed(version string, cause error) *ConvertError {
	return Wrap(cause, CategoryGit, SeverityFatal, "source checkout failed").
		WithContext("version", version)
}

func StateError(operation string, cause error) *ConvertError {
	return Wrap(cause, CategoryState, SeverityError, "build state operation failed").
		WithContext("operation", operation)
}
