// Package extract finds the module specifiers a JavaScript source file refers to.
//
// Matching is purely textual: the whole document is scanned with a single pattern
// covering static imports, re-exports, dynamic import() calls and require() calls.
// Invalid programs are not rejected; they simply produce whatever matches they contain.
package extract

import (
	"os"
	"regexp"

	sweeperrors "github.com/wexinc/depsweep/internal/errors"
)

// specifierPattern has one capture group per recognized form. Exactly one group
// participates in each match.
//
//	import { a, b } from "x"   import a from "x"   import * as a from "x"
//	import a, { b } from "x"   import "x"
//	export { a } from "x"      export * from "x"
//	import("x")                require("x")
var specifierPattern = regexp.MustCompile(
	`\bimport\b\s*(?:[\w$*{}\s,]+?\s*from\s*)?["']([^"'\r\n]+)["']` +
		`|\bexport\b\s*[\w$*{}\s,]*?\s*from\s*["']([^"'\r\n]+)["']` +
		`|\bimport\s*\(\s*["']([^"'\r\n]+)["']\s*\)` +
		`|\brequire\s*\(\s*["']([^"'\r\n]+)["']\s*\)`,
)

// Extract returns the distinct specifiers referenced by text, in the order
// they first appear.
func Extract(text string) []string {
	matches := specifierPattern.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool, len(matches))
	specs := make([]string, 0, len(matches))
	for _, m := range matches {
		spec := firstGroup(m)
		if spec == "" || seen[spec] {
			continue
		}
		seen[spec] = true
		specs = append(specs, spec)
	}
	return specs
}

// ExtractFile reads path as UTF-8 text and extracts its specifiers.
func ExtractFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sweeperrors.ReadFailed(path, err)
	}
	return Extract(string(data)), nil
}

func firstGroup(match []string) string {
	for _, g := range match[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
