package core

import "strings"

func (r *Rewriter) matchOpcodeRename(raw string) bool {
	for _, rn := range r.renames {
		if rn.From != "" && strings.Contains(raw, rn.From) {
			return true
		}
	}

	return false
}

// applyOpcodeRename replaces every rename key found in the original line.
// Keys are plain substrings and apply in table order, so a key that is part
// of a longer mnemonic matches it too.
func (r *Rewriter) applyOpcodeRename(c *rewriteCtx) (bool, error) {
	changed := false

	for _, rn := range r.renames {
		if rn.From == "" || !strings.Contains(c.inst.Raw, rn.From) {
			continue
		}

		from, to := rn.From, rn.To
		changed = c.mapLines(func(l string) string {
			return strings.ReplaceAll(l, from, to)
		}) || changed
	}

	return changed, nil
}
