package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldFile      = "file"
	FieldDBPath    = "db_path"
	FieldBackend   = "backend"
	FieldImported  = "imported"
	FieldDropped   = "dropped"
	FieldErrors    = "errors"
	FieldKind      = "kind"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
)

// Component names
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentStorage  = "storage"
	ComponentExport   = "export"
	ComponentCLI      = "cli"
)

// Operation names
const (
	OpParse     = "parse"
	OpTransform = "transform"
	OpInsert    = "insert"
	OpMigrate   = "migrate"
	OpExport    = "export"
	OpSeed      = "seed"
)
