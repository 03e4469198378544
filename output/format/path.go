package format

import (
	"fmt"
	"path"
	"strings"
)

// PathParts is a file path split into a directory prefix and a basename.
// Dir + "/" + Base reconstructs the path relative to whatever root it was
// derived from. Dir is empty for paths directly under the root.
type PathParts struct {
	Dir  string
	Base string
}

// SplitPath derives PathParts for p relative to root. If p is not under root
// it is split as-is.
func SplitPath(root, p string) PathParts {
	rel := p
	if root != "" {
		if trimmed := strings.TrimPrefix(p, strings.TrimSuffix(root, "/")+"/"); trimmed != p {
			rel = trimmed
		}
	}
	dir, base := path.Split(rel)
	return PathParts{
		Dir:  strings.TrimSuffix(dir, "/"),
		Base: base,
	}
}

// String reassembles the relative path.
func (p PathParts) String() string {
	if p.Dir == "" {
		return p.Base
	}
	return p.Dir + "/" + p.Base
}

// TrimPath renders a path so that it fits in columns-pad visible characters,
// keeping as much of the basename as possible. The directory prefix (including
// the trailing separator) is dimmed and the basename is bold.
//
// Fitting rules, first match wins:
//  1. The whole path fits: render it unmodified.
//  2. The basename plus "..." and a separator fit with room to spare: keep the
//     basename and the tail of the directory, prefixed with "...".
//  3. They fit exactly: drop the directory, render ".../" plus the basename.
//  4. Otherwise: render "..." plus the trailing characters of the basename.
//
// Lengths are counted in runes. Returns an error when columns <= pad; callers
// must reserve fewer columns than they have.
func TrimPath(pad, columns int, parts PathParts, style Styler) (string, error) {
	budget := columns - pad
	if budget <= 0 {
		return "", fmt.Errorf("format: invalid path budget: columns (%d) must exceed pad (%d)", columns, pad)
	}
	if style == nil {
		style = PlainStyler
	}

	dir := []rune(parts.Dir)
	base := []rune(parts.Base)

	// Rule 1: everything fits. len(dir) + separator + len(base).
	if len(dir) == 0 && len(base) <= budget {
		return style(StyleBold, parts.Base), nil
	}
	if len(dir) > 0 && len(dir)+1+len(base) <= budget {
		return style(StyleDim, parts.Dir+"/") + style(StyleBold, parts.Base), nil
	}

	// 4 = len("...") + the separator.
	switch {
	case len(base)+4 < budget:
		// Rule 2: keep the basename, truncate the directory from the left.
		tail := string(dir[len(dir)-(budget-4-len(base)):])
		return style(StyleDim, "..."+tail+"/") + style(StyleBold, parts.Base), nil

	case len(base)+4 == budget:
		// Rule 3: the directory contributes nothing but the ellipsis.
		return style(StyleDim, ".../") + style(StyleBold, parts.Base), nil

	default:
		// Rule 4: even the basename is too long; keep its tail.
		keep := budget - 4
		if keep < 0 {
			keep = 0
		}
		if keep > len(base) {
			keep = len(base)
		}
		return style(StyleBold, "..."+string(base[len(base)-keep:])), nil
	}
}
