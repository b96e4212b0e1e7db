package isbnapi

import _ "embed"

// Readme is served as the OpenAPI document description.
//
//go:embed README.md
var Readme string
