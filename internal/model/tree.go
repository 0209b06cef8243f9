package model

// BuildTree links freshly constructed, parentless entries into a tree and
// returns the root-level entries in input order.
//
// Each entry is attached to the folder whose key equals the key of its
// parent path. When several folders share a key, the first one wins and
// later ones are linked like any other entry. Entries whose parent folder
// is not present stay at the root.
func BuildTree(entries []Entry) []Entry {
	folders := make(map[string]*FolderEntry)
	for _, e := range entries {
		f, ok := e.(*FolderEntry)
		if !ok {
			continue
		}
		key := PathKey(f.Path())
		if _, exists := folders[key]; !exists {
			folders[key] = f
		}
	}

	roots := make([]Entry, 0)
	for _, e := range entries {
		parent := ParentPath(e.Path())
		if parent != "" {
			if f, ok := folders[PathKey(parent)]; ok && f.adopt(e) {
				continue
			}
		}
		roots = append(roots, e)
	}
	return roots
}

// Flatten returns every entry of the given trees, each folder before its
// children, otherwise in insertion order.
func Flatten(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	var walk func([]Entry)
	walk = func(es []Entry) {
		for _, e := range es {
			out = append(out, e)
			if f, ok := e.(*FolderEntry); ok {
				walk(f.Contents())
			}
		}
	}
	walk(entries)
	return out
}
