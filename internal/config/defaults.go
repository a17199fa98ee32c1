package config

// Default values applied before the config file and environment are read.
const (
	DefaultRoot         = "."
	DefaultSkipVendored = false
	DefaultOutputFormat = FormatText
	DefaultOutputColor  = ColorAuto
	DefaultLogLevel     = "info"
	DefaultLogJSON      = false
	DefaultOTLPEndpoint = ""
	DefaultOTLPHeaders  = ""
	DefaultOTLPInsecure = false
	DefaultMetricsFile  = ""
)

// DefaultExtensions lists the file extensions annotated by default.
func DefaultExtensions() []string {
	return []string{".ts", ".tsx"}
}

// DefaultIgnoreDirs lists the directory names skipped by default.
func DefaultIgnoreDirs() []string {
	return []string{".git", "node_modules", ".next", "out", "build"}
}

// DefaultAliases lists the project alias prefixes recognized by default.
func DefaultAliases() []string {
	return []string{"@root", "@lib", "@i18n", "@components", "@clientComponents", "@serverComponents"}
}
