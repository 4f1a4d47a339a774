// Package output renders sigtok CLI results.
//
//   - formatter.go: Formatter interface and factory
//   - text.go: one line per result, for shells and pipes
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: progress animation for slow key derivation
//
// Token payloads keep their exact numeric text in every format.
package output
