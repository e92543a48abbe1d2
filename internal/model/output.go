package model

// FileKind tags the variant of an OutputFile.
type FileKind string

const (
	// KindJSON is a document serialized as indented JSON.
	KindJSON FileKind = "json"
	// KindText is a file written verbatim.
	KindText FileKind = "text"
	// KindSymlink is a symbolic link to Target.
	KindSymlink FileKind = "symlink"
)

// IsValid returns true if the kind is recognized.
func (k FileKind) IsValid() bool {
	switch k {
	case KindJSON, KindText, KindSymlink:
		return true
	default:
		return false
	}
}

// OutputFile is one file a plugin wants on disk.
type OutputFile struct {
	Kind FileKind `json:"type"`
	// Path is relative to the project root, slash separated.
	Path string `json:"path"`

	JSON   any    `json:"json,omitempty"`
	Text   string `json:"text,omitempty"`
	Target string `json:"target,omitempty"`
}

// JSONFile returns a JSON output file.
func JSONFile(path string, v any) OutputFile {
	return OutputFile{Kind: KindJSON, Path: path, JSON: v}
}

// TextFile returns a text output file.
func TextFile(path, content string) OutputFile {
	return OutputFile{Kind: KindText, Path: path, Text: content}
}

// SymlinkFile returns a symlink output file pointing at target.
func SymlinkFile(path, target string) OutputFile {
	return OutputFile{Kind: KindSymlink, Path: path, Target: target}
}

// Paths returns the path of every file, in order.
func Paths(files []OutputFile) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Action classifies what a run did (or would do) to one path.
type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionUnchanged Action = "unchanged"
)

// ChangeResult is the outcome for one path in one run.
type ChangeResult struct {
	Path    string `json:"path" yaml:"path"`
	Action  Action `json:"action" yaml:"action"`
	OldHash string `json:"oldHash,omitempty" yaml:"oldHash,omitempty"`
	NewHash string `json:"newHash,omitempty" yaml:"newHash,omitempty"`
}

// IsChange reports whether the action mutates (or would mutate) the disk.
func (c ChangeResult) IsChange() bool {
	return c.Action != ActionUnchanged
}
