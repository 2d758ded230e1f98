package kgraph

import (
	"path/filepath"
	"regexp"
	"strings"
)

var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// graphResolver maps user-written graph handles (e.g. "g1") in match
// clauses onto one of the paths registered with the store, memoizing each
// resolution so repeated lookups of the same handle are stable even as
// more files get mapped to other handles.
type graphResolver struct {
	files []string
	memo  map[string]string
}

func newGraphResolver(files []string) *graphResolver {
	return &graphResolver{files: files, memo: make(map[string]string)}
}

// defaultGraph is the file used for a clause whose first node carries no
// graph handle: the first registered file.
func (r *graphResolver) defaultGraph() string {
	if len(r.files) == 0 {
		return ""
	}

	return r.files[0]
}

// resolve maps handle onto a registered path: memoized lookups are stable;
// otherwise the handle (or its base handle, with a trailing numeric suffix
// stripped) is matched against registered files in registration order,
// skipping files already claimed by a different handle.
func (r *graphResolver) resolve(handle string) (string, error) {
	if path, ok := r.memo[handle]; ok {
		return path, nil
	}

	baseHandle := handle
	if loc := trailingDigits.FindStringIndex(handle); loc != nil && loc[0] > 0 {
		baseHandle = handle[:loc[0]]
	}

	claimed := make(map[string]bool, len(r.memo))
	for _, path := range r.memo {
		claimed[path] = true
	}

	for _, path := range r.files {
		if claimed[path] {
			continue
		}

		if path == handle {
			r.memo[handle] = path

			return path, nil
		}

		base := filepath.Base(path)
		if strings.Contains(base, handle) || strings.Contains(base, baseHandle) {
			r.memo[handle] = path

			return path, nil
		}
	}

	return "", newCompileError("resolve graph handle", KindUnresolvedHandle,
		"failed to uniquely map handle %q onto one of %v", handle, r.files)
}
