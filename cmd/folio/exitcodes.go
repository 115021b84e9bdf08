package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no folio.yml, invalid settings)
	ExitFetchError  = 3 // Publication or talk data could not be obtained
	ExitEmpty       = 4 // The pipeline completed but found nothing to show
)
