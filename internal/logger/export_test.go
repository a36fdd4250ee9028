// export_test.go exports private functions for white-box testing.
package logger

// ExportErrorFormatting exports the private error formatting functions for testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)

// Messages returns the messages of collected entries.
func Messages(err error) []string {
	entries := collectErrorEntries(err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.message
	}
	return out
}
