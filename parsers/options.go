package parsers

// ParseOptions controls which files a parser scans.
type ParseOptions struct {
	// SearchPaths restricts scanning to these paths relative to the root.
	// Empty means the whole module.
	SearchPaths []string
	// Recursive descends into subdirectories of the search paths.
	Recursive bool
}
