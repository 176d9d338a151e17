package core

import (
	"regexp"
	"strings"
)

// attributeMarker matches the directive that declares the target ISA string.
var attributeMarker = regexp.MustCompile(`\.attribute\s+5`)

// attributeVersionLen is the length of the version part of an ISA string
// entry, as in "2p0".
const attributeVersionLen = 3

// SplitAttribute splits an ISA string entry such as "v1p0" into its name and
// version.
func SplitAttribute(entry string) (name, version string) {
	if len(entry) <= attributeVersionLen {
		return "", entry
	}

	cut := len(entry) - attributeVersionLen

	return entry[:cut], entry[cut:]
}

// downgradeAttributes rewrites the quoted ISA string of an attribute line.
// Renamed extensions get their new version, removed ones are dropped together
// with their separator. A removal wins over a rename of the same name.
func (r *Rewriter) downgradeAttributes(line string) string {
	open, end, ok := quotedISA(line)
	if !ok {
		return line
	}

	entries := strings.Split(line[open+1:end], "_")
	kept := make([]string, 0, len(entries))

	for _, entry := range entries {
		name, _ := SplitAttribute(entry)

		if name != "" && r.tables.IsAttributeRemoved(name) {
			continue
		}

		if suffix, ok := r.tables.AttributeSuffix(name); ok && name != "" {
			entry = name + suffix
		}

		kept = append(kept, entry)
	}

	return line[:open+1] + strings.Join(kept, "_") + line[end:]
}

func quotedISA(line string) (open, end int, ok bool) {
	open = strings.Index(line, `"`)
	end = strings.LastIndex(line, `"`)

	return open, end, open >= 0 && end > open
}

// AttributeEntries returns the ISA string entries of an attribute line. It
// returns false for any other line.
func AttributeEntries(line string) ([]string, bool) {
	if !attributeMarker.MatchString(line) {
		return nil, false
	}

	open, end, ok := quotedISA(line)
	if !ok {
		return nil, false
	}

	return strings.Split(line[open+1:end], "_"), true
}

func (r *Rewriter) applyAttribute(c *rewriteCtx) (bool, error) {
	return c.mapLines(r.downgradeAttributes), nil
}

func (r *Rewriter) matchAttribute(raw string) bool {
	return attributeMarker.MatchString(raw)
}
