// Package gitctx selects Python sources from a git repository.
//
// It supports three modes (staged, unstaged and tracked) by shelling out to
// git. Staged files are read from the index so the review matches what will
// be committed; the other modes read the working tree. Paths are relative to
// the current directory and filtered by include/exclude glob patterns.
package gitctx
