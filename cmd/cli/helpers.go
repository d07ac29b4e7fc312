package main

import "strings"

// filenameReplacer maps characters that are path separators or
// otherwise hostile on common filesystems to underscores.
var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	`"`, "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "_",
)

// sanitizeName makes a management zone name safe to use as a
// directory name.
func sanitizeName(name string) string {
	return filenameReplacer.Replace(name)
}
