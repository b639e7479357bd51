// embed.go bundles the default configuration and the sample project.
// It must stay in the repository root next to data/, since //go:embed only
// sees files below the declaring package.
package main

import "embed"

//go:embed data/config data/samples
var dataFS embed.FS
