package refsync

import (
	"path"
	"strings"
)

// resolveDir maps a manifest-relative reference to the workspace-relative
// directory it points at. A reference naming a .json file resolves to
// that file's directory.
func resolveDir(manifestDir, refPath string) string {
	p := path.Join(manifestDir, strings.TrimSpace(refPath))
	if strings.HasSuffix(path.Base(p), ".json") {
		p = path.Dir(p)
	}
	return p
}

// isUnder reports whether dir sits inside root (inclusive). Both are
// workspace-relative slash paths; root "." covers the whole workspace.
func isUnder(dir, root string) bool {
	if dir == root {
		return true
	}
	if root == "." {
		return dir != ".." && !strings.HasPrefix(dir, "../") && !strings.HasPrefix(dir, "/")
	}
	return strings.HasPrefix(dir, root+"/")
}

// relPath computes the slash-relative path from fromDir to target, both
// workspace-relative.
func relPath(fromDir, target string) string {
	from := splitPath(path.Clean(fromDir))
	to := splitPath(path.Clean(target))

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	parts := make([]string, 0, len(from)-common+len(to)-common)
	for i := common; i < len(from); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
